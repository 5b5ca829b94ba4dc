// Package syncer pushes queued offline changes to the API. Runs start on a
// cron schedule, when connectivity returns, or on demand.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/datastore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/notify"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const (
	DefaultSchedule      = "@every 5m"
	DefaultProbeInterval = 30 * time.Second
	probeTimeout         = 5 * time.Second
)

var (
	ErrSyncInProgress   = errors.New("a sync run is already in progress")
	ErrNotAuthenticated = errors.New("sign in to sync")
)

// Pusher replays queued changes; implemented by datastore.Manager.
type Pusher interface {
	Push(ctx context.Context) (models.SyncReport, error)
}

// Prober checks that the API answers; implemented by remote.Client.
type Prober interface {
	Ping(ctx context.Context) error
}

// Recorder keeps a history of runs; implemented by the sync repository.
type Recorder interface {
	StartRun(runID string, trigger entities.SyncTrigger) error
	CompleteRun(runID string, pushed, failed, skipped int, errorMsg string) error
}

type Options struct {
	Pusher   Pusher
	Prober   Prober
	Auth     datastore.Authenticator
	Notifier notify.Notifier
	Recorder Recorder

	// Schedule is a cron spec; DefaultSchedule when empty.
	Schedule string
	// ProbeInterval is how often connectivity is checked. Zero selects
	// DefaultProbeInterval; a negative value disables probing.
	ProbeInterval time.Duration
}

type Coordinator struct {
	opts Options
	cron *cron.Cron

	mu        sync.RWMutex
	entryID   cron.EntryID
	isRunning bool
	isSyncing bool
	stopping  bool
	online    bool
	last      *models.SyncReport

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options) *Coordinator {
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.ProbeInterval == 0 {
		opts.ProbeInterval = DefaultProbeInterval
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		opts:   opts,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		online: true,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules periodic runs and connectivity probes.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return nil
	}

	entryID, err := c.cron.AddFunc(c.opts.Schedule, c.runScheduled)
	if err != nil {
		return fmt.Errorf("invalid sync schedule '%s': %w", c.opts.Schedule, err)
	}
	c.entryID = entryID

	if c.opts.Prober != nil && c.opts.ProbeInterval > 0 {
		probe := fmt.Sprintf("@every %s", c.opts.ProbeInterval)
		if _, err := c.cron.AddFunc(probe, c.checkConnectivity); err != nil {
			c.cron.Remove(entryID)
			return fmt.Errorf("invalid probe interval %s: %w", c.opts.ProbeInterval, err)
		}
	}

	c.cron.Start()
	c.isRunning = true
	log.Printf("Sync coordinator: started with schedule '%s'", c.opts.Schedule)

	go func() {
		select {
		case <-ctx.Done():
			c.Stop()
		case <-c.ctx.Done():
		}
	}()
	return nil
}

// Stop halts the schedule and waits for runs in flight.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopping = true
	wasRunning := c.isRunning
	c.isRunning = false
	c.mu.Unlock()
	c.cancel()

	if wasRunning {
		<-c.cron.Stop().Done()
		log.Printf("Sync coordinator: stopped")
	}
	c.wg.Wait()
}

// SetOnline records connectivity. Every change shows a banner once; coming
// back online also starts a run in the background.
func (c *Coordinator) SetOnline(online bool) {
	c.mu.Lock()
	changed := online != c.online
	c.online = online
	c.mu.Unlock()

	if !changed {
		return
	}
	if !online {
		log.Printf("Sync coordinator: connectivity lost")
		c.opts.Notifier.Show("You are offline", "Changes are kept on this device until the connection returns.")
		return
	}
	log.Printf("Sync coordinator: connectivity restored")
	c.opts.Notifier.Show("Back online", "Syncing your changes.")
	c.background(entities.SyncTriggerOnline)
}

func (c *Coordinator) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

func (c *Coordinator) IsSyncing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isSyncing
}

// LastReport returns the report of the latest finished run.
func (c *Coordinator) LastReport() (models.SyncReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return models.SyncReport{}, false
	}
	return *c.last, true
}

// NextRun returns when the next scheduled run fires.
func (c *Coordinator) NextRun() *time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.isRunning {
		return nil
	}
	for _, entry := range c.cron.Entries() {
		if entry.ID == c.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow pushes pending changes and waits for the result.
func (c *Coordinator) RunNow(ctx context.Context) (models.SyncReport, error) {
	return c.run(ctx, entities.SyncTriggerManual)
}

func (c *Coordinator) runScheduled() {
	if !c.Online() {
		log.Printf("Sync coordinator: skipped scheduled run (offline)")
		return
	}
	c.background(entities.SyncTriggerPeriodic)
}

func (c *Coordinator) checkConnectivity() {
	ctx, cancel := context.WithTimeout(c.ctx, probeTimeout)
	defer cancel()

	err := c.opts.Prober.Ping(ctx)
	if err != nil && c.Online() {
		log.Printf("Sync coordinator: API unreachable: %v", err)
	}
	c.SetOnline(err == nil)
}

// background starts a run unless Stop has begun. The check and wg.Add
// share c.mu with Stop so no run is added after Stop waits.
func (c *Coordinator) background(trigger entities.SyncTrigger) {
	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		_, err := c.run(c.ctx, trigger)
		if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, ErrNotAuthenticated) {
			log.Printf("Sync coordinator: %s run failed: %v", trigger, err)
		}
	}()
}

func (c *Coordinator) run(ctx context.Context, trigger entities.SyncTrigger) (models.SyncReport, error) {
	if c.opts.Auth == nil || !c.opts.Auth.Authenticated() {
		return models.SyncReport{}, ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.isSyncing {
		c.mu.Unlock()
		log.Printf("Sync coordinator: skipped %s run (already syncing)", trigger)
		return models.SyncReport{}, ErrSyncInProgress
	}
	c.isSyncing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isSyncing = false
		c.mu.Unlock()
	}()

	runID := uuid.NewString()
	started := time.Now()
	if c.opts.Recorder != nil {
		if err := c.opts.Recorder.StartRun(runID, trigger); err != nil {
			log.Printf("Sync coordinator: failed to record run start: %v", err)
		}
	}

	report, err := c.opts.Pusher.Push(ctx)
	report.RunID = runID
	report.Trigger = string(trigger)
	report.StartedAt = started
	report.FinishedAt = time.Now()
	if err != nil {
		report.Error = err.Error()
	}

	if c.opts.Recorder != nil {
		if recErr := c.opts.Recorder.CompleteRun(runID, report.Pushed(), report.Failed(), report.Skipped(), report.Error); recErr != nil {
			log.Printf("Sync coordinator: failed to record run result: %v", recErr)
		}
	}

	c.mu.Lock()
	c.last = &report
	c.mu.Unlock()

	log.Printf("Sync coordinator: %s run %s pushed %d, failed %d, skipped %d in %v",
		trigger, runID, report.Pushed(), report.Failed(), report.Skipped(),
		report.FinishedAt.Sub(started).Round(time.Millisecond))
	c.announce(report, err)
	return report, err
}

func (c *Coordinator) announce(report models.SyncReport, err error) {
	n := c.opts.Notifier
	switch {
	case errors.Is(err, remote.ErrAuthRejected):
		n.Show("Sync stopped", "Your session has expired. Sign in again to sync your changes.")
	case err != nil:
		n.Show("Sync failed", err.Error())
	case report.Failed() > 0:
		n.Show("Sync incomplete", fmt.Sprintf("%d changes synced, %d will be retried", report.Pushed(), report.Failed()+report.Skipped()))
	case report.Pushed() > 0:
		n.Show("Sync complete", fmt.Sprintf("%d changes synced", report.Pushed()))
	}
}
