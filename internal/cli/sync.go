package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/syncer"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

// SyncCommand pushes pending changes now, watches and syncs on schedule, or
// shows the run history.
type SyncCommand struct {
	cfg    *config.Config
	client clientFlags

	Action string
	Limit  int
}

func NewSyncCommand(cfg *config.Config) *SyncCommand {
	return &SyncCommand{cfg: cfg}
}

func (cmd *SyncCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "run")

	fs := flag.NewFlagSet("sync "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.IntVar(&cmd.Limit, "limit", 10, "Number of runs shown by status")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [run|watch|status] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  run     push pending changes once\n")
		fmt.Fprintf(os.Stderr, "  watch   keep syncing on schedule and when connectivity returns\n")
		fmt.Fprintf(os.Stderr, "  status  show pending changes and recent runs\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	switch cmd.Action {
	case "run", "watch", "status":
		return nil
	}
	return fmt.Errorf("unknown sync action: %s", cmd.Action)
}

func (cmd *SyncCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	switch cmd.Action {
	case "status":
		return cmd.status(ctx, env)

	case "watch":
		if !env.session.Authenticated() {
			return syncer.ErrNotAuthenticated
		}
		if err := env.syncer.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("Syncing with %s (%s). Press Ctrl+C to stop.\n", env.api.BaseURL(), cmd.cfg.Client.SyncSchedule)
		if _, err := env.syncer.RunNow(ctx); err != nil && !errors.Is(err, syncer.ErrSyncInProgress) {
			fmt.Fprintf(os.Stderr, "Initial sync failed: %v\n", err)
		}
		<-ctx.Done()
		return nil
	}

	report, err := env.syncer.RunNow(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sync run %s\n", report.RunID)
	names := make([]string, 0, len(report.Entities))
	for name := range report.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	w := newTable("TYPE", "PUSHED", "FAILED", "SKIPPED")
	for _, name := range names {
		e := report.Entities[name]
		row(w, name, e.Pushed, e.Failed, e.Skipped)
	}
	row(w, "total", report.Pushed(), report.Failed(), report.Skipped())
	return w.Flush()
}

func (cmd *SyncCommand) status(ctx context.Context, env *clientEnv) error {
	usage, err := localstore.StorageUsage(ctx, env.backend)
	if err != nil {
		return err
	}
	fmt.Printf("Pending changes: %d\n", usage.TotalPending)
	if env.session.Authenticated() {
		fmt.Printf("Signed in as:    %s\n", displayName(env))
	} else {
		fmt.Println("Signed in as:    (nobody)")
	}

	if env.runs == nil {
		fmt.Println("Run history is unavailable with the file cache")
		return nil
	}
	runs, err := env.runs.RecentRuns(cmd.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No sync runs yet")
		return nil
	}

	fmt.Println()
	w := newTable("STARTED", "TRIGGER", "STATUS", "PUSHED", "FAILED", "SKIPPED", "ERROR")
	for _, r := range runs {
		row(w, formatDate(r.StartedAt), r.Trigger, r.Status, r.Pushed, r.Failed, r.Skipped, truncate(r.Error, 40))
	}
	return w.Flush()
}

func displayName(env *clientEnv) string {
	u := env.session.User()
	if u.Email == "" {
		return u.Name
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}
