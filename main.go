package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/cli"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every client subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg := config.NewConfig()

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "register":
		cmd = cli.NewRegisterCommand(cfg)
	case "login":
		cmd = cli.NewLoginCommand(cfg)
	case "logout":
		cmd = cli.NewLogoutCommand(cfg)
	case "sessions":
		cmd = cli.NewSessionsCommand(cfg)
	case "notes":
		cmd = cli.NewNotesCommand(cfg)
	case "books":
		cmd = cli.NewBooksCommand(cfg)
	case "timer":
		cmd = cli.NewTimerCommand(cfg)
	case "stats":
		cmd = cli.NewStatsCommand(cfg)
	case "sync":
		cmd = cli.NewSyncCommand(cfg)
	case "backup":
		cmd = cli.NewBackupCommand(cfg)
	case "restore":
		cmd = cli.NewRestoreCommand(cfg)
	case "storage":
		cmd = cli.NewStorageCommand(cfg)

	case "version":
		fmt.Printf("focusmode %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Server:\n")
	fmt.Fprintf(os.Stderr, "  serve       Start the API server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "\nAccount:\n")
	fmt.Fprintf(os.Stderr, "  register    Create an account and sign in\n")
	fmt.Fprintf(os.Stderr, "  login       Sign in and sync local changes\n")
	fmt.Fprintf(os.Stderr, "  logout      Sign out; unsynced changes stay on this device\n")
	fmt.Fprintf(os.Stderr, "\nStudy:\n")
	fmt.Fprintf(os.Stderr, "  sessions    Plan, start and complete study sessions\n")
	fmt.Fprintf(os.Stderr, "  notes       Keep study notes\n")
	fmt.Fprintf(os.Stderr, "  books       Track your reading list\n")
	fmt.Fprintf(os.Stderr, "  timer       Run a pomodoro or break timer\n")
	fmt.Fprintf(os.Stderr, "  stats       Show study statistics\n")
	fmt.Fprintf(os.Stderr, "\nOffline data:\n")
	fmt.Fprintf(os.Stderr, "  sync        Push pending changes or show sync history\n")
	fmt.Fprintf(os.Stderr, "  backup      Write the local cache to a file\n")
	fmt.Fprintf(os.Stderr, "  restore     Load a backup into the local cache\n")
	fmt.Fprintf(os.Stderr, "  storage     Show local storage usage\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
