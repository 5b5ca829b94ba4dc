package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

// StatsCommand prints the study summary, the ledger history or asks the
// server to rebuild its statistics.
type StatsCommand struct {
	cfg    *config.Config
	client clientFlags

	Action string
	Days   int
}

func NewStatsCommand(cfg *config.Config) *StatsCommand {
	return &StatsCommand{cfg: cfg}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "summary")

	fs := flag.NewFlagSet("stats "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.IntVar(&cmd.Days, "days", 30, "Number of days of history")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [summary|history|rebuild] [options]\n\nOptions:\n", os.Args[0])
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	switch cmd.Action {
	case "summary", "history", "rebuild":
	default:
		return fmt.Errorf("unknown stats action: %s", cmd.Action)
	}
	if cmd.Days <= 0 {
		return fmt.Errorf("-days must be positive")
	}
	return nil
}

func (cmd *StatsCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	switch cmd.Action {
	case "history":
		if !env.session.Authenticated() {
			return fmt.Errorf("history is kept on the server; log in first")
		}
		days, err := env.api.History(ctx, cmd.Days)
		if err != nil {
			return err
		}
		w := newTable("DATE", "MINUTES", "SESSIONS", "COMPLETED", "STREAK")
		for _, d := range days {
			row(w, d.Date, d.TotalMinutes, d.TotalSessions, d.CompletedSessions, d.StreakDays)
		}
		return w.Flush()

	case "rebuild":
		if !env.session.Authenticated() {
			return fmt.Errorf("log in to rebuild server statistics")
		}
		taskID, err := env.api.Rebuild(ctx)
		if err != nil {
			return err
		}
		if taskID == "" {
			fmt.Println("Statistics rebuilt")
		} else {
			fmt.Printf("Rebuild queued as task %s\n", taskID)
		}
		return nil
	}

	summary, err := env.stats.Summary(ctx)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func printSummary(s models.Summary) {
	fmt.Println("Study Statistics")
	fmt.Println("================")
	if s.Source == models.SourceLocal {
		fmt.Println("(computed from the local cache; the streak needs the server)")
	}
	fmt.Printf("Today:          %d min in %d sessions\n", s.Today.TotalMinutes, s.Today.TotalSessions)
	fmt.Printf("This week:      %d min in %d sessions\n", s.WeeklyTotalMinutes, s.WeeklyTotalSessions)
	fmt.Printf("Daily average:  %.1f min\n", s.DailyAverageMinutes)
	fmt.Printf("Current streak: %d days\n", s.Streak)

	if len(s.Weekly) > 0 {
		fmt.Println()
		w := newTable("DATE", "MINUTES", "SESSIONS")
		for _, d := range s.Weekly {
			row(w, d.Date, d.TotalMinutes, d.SessionsCount)
		}
		_ = w.Flush()
	}

	if len(s.Monthly) > 0 {
		fmt.Println()
		w := newTable("MONTH", "MINUTES", "SESSIONS", "COMPLETED")
		for _, m := range s.Monthly {
			row(w, m.Month, m.Minutes, m.Sessions, m.Completed)
		}
		_ = w.Flush()
	}
}
