package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/timer"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

// TimerCommand runs a focus countdown in the terminal and records it, or
// lists recorded timers.
type TimerCommand struct {
	cfg    *config.Config
	client clientFlags

	Action   string
	Type     string
	Minutes  int
	Task     string
	Interval time.Duration
}

func NewTimerCommand(cfg *config.Config) *TimerCommand {
	return &TimerCommand{cfg: cfg}
}

func (cmd *TimerCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "start")

	fs := flag.NewFlagSet("timer "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Type, "type", models.TimerPomodoro, "Timer type: pomodoro, short-break or long-break")
	fs.IntVar(&cmd.Minutes, "minutes", 0, "Override the default length of the timer type")
	fs.StringVar(&cmd.Task, "task", "", "What you are working on")
	fs.DurationVar(&cmd.Interval, "tick", time.Second, "Display refresh interval")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s timer [start|list] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run a focus timer. Press Ctrl+C to abandon it without saving.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Action {
	case "start", "list":
	default:
		return fmt.Errorf("unknown timer action: %s", cmd.Action)
	}
	if cmd.Minutes < 0 {
		return fmt.Errorf("-minutes must be positive")
	}
	return nil
}

func (cmd *TimerCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if cmd.Action == "list" {
		items, err := env.store.Timers.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No timers recorded")
			return nil
		}
		w := newTable("ID", "TYPE", "MINUTES", "TASK", "STARTED", "DONE", "SYNC")
		for _, t := range items {
			done := ""
			if t.Completed {
				done = "yes"
			}
			row(w, t.ID, t.TimerType, t.Duration.Int(), truncate(t.TaskDescription, 30), formatDate(t.StartedAt), done, syncMark(t.Meta))
		}
		return w.Flush()
	}

	length := timer.DurationFor(cmd.Type)
	if cmd.Minutes > 0 {
		length = time.Duration(cmd.Minutes) * time.Minute
	}

	record, err := env.store.Timers.Create(ctx, models.Timer{
		TimerType:       cmd.Type,
		Duration:        models.Minutes(int(length / time.Minute)),
		TaskDescription: cmd.Task,
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	countdown := timer.NewCountdownWithInterval(length, cmd.Interval)
	countdown.OnTick(func(remaining time.Duration) {
		fmt.Printf("\r%s  %s ", cmd.Type, formatRemaining(remaining))
	})
	countdown.OnDone(func() { close(done) })

	fmt.Printf("Focus: %s for %s. Stay on task!\n", cmd.Type, length)
	countdown.Start()

	select {
	case <-done:
	case <-ctx.Done():
		countdown.Pause()
		fmt.Printf("\nTimer abandoned with %s left\n", formatRemaining(countdown.Remaining()))
		return nil
	}

	fmt.Println()
	if _, err := env.store.Timers.Complete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to record finished timer: %w", err)
	}
	fmt.Println("Time is up! Take a break.")
	offlineHint(env)
	return nil
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}
