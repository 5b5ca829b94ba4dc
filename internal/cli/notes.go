package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// NotesCommand manages notes: list, show, add, update and delete.
type NotesCommand struct {
	cfg    *config.Config
	client clientFlags

	Action   string
	ID       int64
	Title    string
	Content  string
	Category string
}

func NewNotesCommand(cfg *config.Config) *NotesCommand {
	return &NotesCommand{cfg: cfg}
}

func (cmd *NotesCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "list")

	fs := flag.NewFlagSet("notes "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.Int64Var(&cmd.ID, "id", 0, "Note id (show, update, delete)")
	fs.StringVar(&cmd.Title, "title", "", "Note title")
	fs.StringVar(&cmd.Content, "content", "", "Note text")
	fs.StringVar(&cmd.Category, "category", "", "Category: study, personal, work or other; list accepts all")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s notes [list|show|add|update|delete] [options]\n\nOptions:\n", os.Args[0])
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Action {
	case "list":
	case "add":
		if cmd.Title == "" || cmd.Content == "" {
			return fmt.Errorf("flags -title and -content are required")
		}
	case "show", "update", "delete":
		if cmd.ID == 0 {
			return fmt.Errorf("required flag -id not provided")
		}
	default:
		return fmt.Errorf("unknown notes action: %s", cmd.Action)
	}
	return nil
}

func (cmd *NotesCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	notes := env.store.Notes
	category := entities.NoteCategory(cmd.Category)

	switch cmd.Action {
	case "list":
		items, err := notes.GetAll(ctx, cmd.Category)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No notes found")
			return nil
		}
		w := newTable("ID", "TITLE", "CATEGORY", "UPDATED", "SYNC")
		for _, n := range items {
			row(w, n.ID, truncate(n.Title, 40), n.Category, formatDate(n.UpdatedAt), syncMark(n.Meta))
		}
		return w.Flush()
	case "show":
		n, err := notes.Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s [%s]\n\n%s\n", n.Title, n.Category, n.Content)
		return nil
	case "add":
		n, err := notes.Create(ctx, models.Note{Title: cmd.Title, Content: cmd.Content, Category: category})
		if err != nil {
			return err
		}
		fmt.Printf("Created note %d: %q\n", n.ID, n.Title)
	case "update":
		n, err := notes.Update(ctx, cmd.ID, models.Note{Title: cmd.Title, Content: cmd.Content, Category: category})
		if err != nil {
			return err
		}
		fmt.Printf("Updated note %d: %q\n", n.ID, n.Title)
	case "delete":
		if err := notes.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted note %d\n", cmd.ID)
	}
	offlineHint(env)
	return nil
}
