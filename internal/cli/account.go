package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// singleUserToken is held when the server runs without accounts. The server
// ignores it, but it lets the client treat the API as reachable.
const singleUserToken = "single-user"

// RegisterCommand creates an account and signs in.
type RegisterCommand struct {
	cfg      *config.Config
	client   clientFlags
	Name     string
	Email    string
	Password string
}

func NewRegisterCommand(cfg *config.Config) *RegisterCommand {
	return &RegisterCommand{cfg: cfg}
}

func (cmd *RegisterCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Name, "name", "", "Display name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 6 characters (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s register -name <name> -email <email> -password <password>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account on the FocusMode API and sign in.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("flags -name, -email and -password are required")
	}
	return nil
}

func (cmd *RegisterCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := env.api.Register(ctx, cmd.Name, cmd.Email, cmd.Password)
	if errors.Is(err, remote.ErrConflict) {
		return fmt.Errorf("an account with email %s already exists", cmd.Email)
	}
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if err := env.session.Begin(result.User, result.Token); err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! You are signed in as %s.\n", result.User.Name, result.User.Email)
	return syncAfterLogin(ctx, env)
}

// LoginCommand signs in and keeps the token in the local cache.
type LoginCommand struct {
	cfg      *config.Config
	client   clientFlags
	Email    string
	Password string
}

func NewLoginCommand(cfg *config.Config) *LoginCommand {
	return &LoginCommand{cfg: cfg}
}

func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Email, "email", "", "Email address")
	fs.StringVar(&cmd.Password, "password", "", "Password")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s login -email <email> -password <password>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sign in. Against a server running without accounts no credentials are needed.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *LoginCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := env.api.Login(ctx, cmd.Email, cmd.Password)
	switch {
	case errors.Is(err, entities.ErrNotFound):
		// No auth routes: the server runs in single-user mode
		if err := env.session.Begin(models.User{Name: "Student"}, singleUserToken); err != nil {
			return err
		}
		fmt.Println("Server runs without accounts; connected in single-user mode.")
		return syncAfterLogin(ctx, env)
	case errors.Is(err, remote.ErrAuthRejected):
		return fmt.Errorf("invalid email or password")
	case err != nil:
		return fmt.Errorf("login failed: %w", err)
	}

	if err := env.session.Begin(result.User, result.Token); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s <%s>\n", result.User.Name, result.User.Email)
	if result.Settings != nil {
		fmt.Printf("Reminders: daily=%v sessions=%v\n", result.Settings.DailyReminders, result.Settings.SessionReminders)
	}
	return syncAfterLogin(ctx, env)
}

// syncAfterLogin pushes changes made while signed out.
func syncAfterLogin(ctx context.Context, env *clientEnv) error {
	report, err := env.syncer.RunNow(ctx)
	if err != nil {
		if remote.IsUnavailable(err) {
			fmt.Println("API unreachable, local changes will sync later.")
			return nil
		}
		return fmt.Errorf("sync after login failed: %w", err)
	}
	if n := report.Pushed(); n > 0 {
		fmt.Printf("Synced %d local changes.\n", n)
	}
	return nil
}

// LogoutCommand ends the session. Unsynced changes stay in the cache.
type LogoutCommand struct {
	cfg    *config.Config
	client clientFlags
}

func NewLogoutCommand(cfg *config.Config) *LogoutCommand {
	return &LogoutCommand{cfg: cfg}
}

func (cmd *LogoutCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	return fs.Parse(args)
}

func (cmd *LogoutCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.session.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	if env.session.Token() != singleUserToken {
		if err := env.api.Logout(ctx); err != nil && !remote.IsUnavailable(err) && !errors.Is(err, remote.ErrAuthRejected) {
			fmt.Fprintf(os.Stderr, "Warning: server logout failed: %v\n", err)
		}
	}
	if err := env.session.End(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
