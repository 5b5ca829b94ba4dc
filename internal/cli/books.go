package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// BooksCommand manages the reading list: list, add, update, toggle and
// delete.
type BooksCommand struct {
	cfg    *config.Config
	client clientFlags

	Action      string
	ID          int64
	Title       string
	Author      string
	Description string
	Category    string
}

func NewBooksCommand(cfg *config.Config) *BooksCommand {
	return &BooksCommand{cfg: cfg}
}

func (cmd *BooksCommand) ParseFlags(args []string) error {
	cmd.Action, args = splitAction(args, "list")

	fs := flag.NewFlagSet("books "+cmd.Action, flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.Int64Var(&cmd.ID, "id", 0, "Book id (update, toggle, delete)")
	fs.StringVar(&cmd.Title, "title", "", "Book title")
	fs.StringVar(&cmd.Author, "author", "", "Author")
	fs.StringVar(&cmd.Description, "description", "", "Short description")
	fs.StringVar(&cmd.Category, "category", "", "Category: academic, fiction, non-fiction or reference")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s books [list|add|update|toggle|delete] [options]\n\nOptions:\n", os.Args[0])
		fs.PrintDefaults()
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
	case "update", "toggle", "delete":
		if cmd.ID == 0 {
			return fmt.Errorf("required flag -id not provided")
		}
	default:
		return fmt.Errorf("unknown books action: %s", cmd.Action)
	}
	return nil
}

func (cmd *BooksCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	books := env.store.Books
	value := models.Book{
		Title:       cmd.Title,
		Author:      cmd.Author,
		Description: cmd.Description,
		Category:    entities.BookCategory(cmd.Category),
	}

	switch cmd.Action {
	case "list":
		items, err := books.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Your reading list is empty")
			return nil
		}
		w := newTable("ID", "TITLE", "AUTHOR", "CATEGORY", "DONE", "SYNC")
		for _, b := range items {
			done := ""
			if b.IsComplete {
				done = "yes"
			}
			row(w, b.ID, truncate(b.Title, 40), b.Author, b.Category, done, syncMark(b.Meta))
		}
		return w.Flush()
	case "add":
		b, err := books.Create(ctx, value)
		if err != nil {
			return err
		}
		fmt.Printf("Added book %d: %q\n", b.ID, b.Title)
	case "update":
		b, err := books.Update(ctx, cmd.ID, value)
		if err != nil {
			return err
		}
		fmt.Printf("Updated book %d: %q\n", b.ID, b.Title)
	case "toggle":
		b, err := books.ToggleStatus(ctx, cmd.ID)
		if err != nil {
			return err
		}
		state := "not finished"
		if b.IsComplete {
			state = "finished"
		}
		fmt.Printf("Marked %q as %s\n", b.Title, state)
	case "delete":
		if err := books.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted book %d\n", cmd.ID)
	}
	offlineHint(env)
	return nil
}
