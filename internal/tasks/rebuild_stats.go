package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/metrics"
)

const RebuildStatsQueue = "rebuild_stats"

// StatsRebuilder recomputes a user's daily study rows.
type StatsRebuilder interface {
	RebuildStats(userID uint) (int, error)
}

// RebuildStatsTask replays a user's completed sessions and timers into study_stats.
type RebuildStatsTask struct {
	UserID uint `json:"user_id"`
}

func (t RebuildStatsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        RebuildStatsQueue,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func RebuildStatsProcessor(rebuilder StatsRebuilder) backlite.QueueProcessor[RebuildStatsTask] {
	return func(ctx context.Context, task RebuildStatsTask) error {
		err := rebuildStats(rebuilder, task)
		metrics.RecordTask(RebuildStatsQueue, err)
		return err
	}
}

func rebuildStats(rebuilder StatsRebuilder, task RebuildStatsTask) error {
	if rebuilder == nil {
		return errors.New("stats rebuilder not configured")
	}
	n, err := rebuilder.RebuildStats(task.UserID)
	if err != nil {
		return fmt.Errorf("rebuild stats for user %d: %w", task.UserID, err)
	}
	log.Printf("[TASK] Rebuilt stats for user %d from %d entries", task.UserID, n)
	return nil
}

func NewRebuildStatsQueue(rebuilder StatsRebuilder) backlite.Queue {
	return backlite.NewQueue(RebuildStatsProcessor(rebuilder))
}
