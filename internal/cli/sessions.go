package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/datastore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// SessionsCommand manages study sessions: list, add, update, start,
// complete and delete.
type SessionsCommand struct {
	cfg    *config.Config
	client clientFlags

	Action      string
	ID          int64
	Title       string
	Description string
	Subject     string
	Duration    int
	Status      string
}

func NewSessionsCommand(cfg *config.Config) *SessionsCommand {
	return &SessionsCommand{cfg: cfg}
}

func (cmd *SessionsCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "list")

	fs := flag.NewFlagSet("sessions "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.Int64Var(&cmd.ID, "id", 0, "Session id (update, start, complete, delete)")
	fs.StringVar(&cmd.Title, "title", "", "Session title")
	fs.StringVar(&cmd.Description, "description", "", "Session description")
	fs.StringVar(&cmd.Subject, "subject", "", "Subject studied")
	fs.IntVar(&cmd.Duration, "duration", -1, "Planned duration in minutes (default 25 on add)")
	fs.StringVar(&cmd.Status, "status", "", "Status: planned, inprogress, completed or cancelled")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sessions [list|add|update|start|complete|delete] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage study sessions. Works offline; changes sync when the API is reachable.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sessions add -title \"Linear algebra\" -subject math -duration 50\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sessions complete -id 42\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Action {
	case "list":
	case "add":
		if cmd.Title == "" {
			return fmt.Errorf("required flag -title not provided")
		}
	case "update", "start", "complete", "delete":
		if cmd.ID == 0 {
			return fmt.Errorf("required flag -id not provided")
		}
	default:
		return fmt.Errorf("unknown sessions action: %s", cmd.Action)
	}
	return nil
}

func (cmd *SessionsCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	sessions := env.store.Sessions
	switch cmd.Action {
	case "list":
		return cmd.list(ctx, sessions)
	case "add":
		in := datastore.SessionInput{
			Title:       cmd.Title,
			Description: cmd.Description,
			Subject:     cmd.Subject,
			Status:      entities.SessionStatus(cmd.Status),
		}
		if cmd.Duration >= 0 {
			d := cmd.Duration
			in.Duration = &d
		}
		s, err := sessions.Create(ctx, in)
		if err != nil {
			return err
		}
		printSession("Created", s)
	case "update":
		patch := models.Session{
			Title:       cmd.Title,
			Description: cmd.Description,
			Subject:     cmd.Subject,
			Status:      entities.SessionStatus(cmd.Status),
		}
		if cmd.Duration >= 0 {
			if cmd.Duration == 0 {
				return entities.NewValidationError("duration", "must be greater than 0")
			}
			patch.Duration = models.Minutes(cmd.Duration)
		}
		s, err := sessions.Update(ctx, cmd.ID, patch)
		if err != nil {
			return err
		}
		printSession("Updated", s)
	case "start":
		s, err := sessions.Start(ctx, cmd.ID)
		if err != nil {
			return err
		}
		printSession("Started", s)
	case "complete":
		s, err := sessions.Complete(ctx, cmd.ID)
		if err != nil {
			return err
		}
		printSession("Completed", s)
	case "delete":
		if err := sessions.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted session %d\n", cmd.ID)
	}
	offlineHint(env)
	return nil
}

func (cmd *SessionsCommand) list(ctx context.Context, sessions *datastore.Sessions) error {
	items, err := sessions.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No study sessions yet")
		return nil
	}

	w := newTable("ID", "TITLE", "SUBJECT", "MINUTES", "STATUS", "CREATED", "SYNC")
	for _, s := range items {
		row(w, s.ID, truncate(s.Title, 40), s.Subject, s.Duration.Int(), s.Status, formatDate(s.CreatedAt), syncMark(s.Meta))
	}
	return w.Flush()
}

func printSession(verb string, s models.Session) {
	fmt.Printf("%s session %d: %q (%d min, %s)\n", verb, s.ID, s.Title, s.Duration.Int(), s.Status)
}
