package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

// BackupCommand writes the local cache to a JSON document.
type BackupCommand struct {
	cfg    *config.Config
	client clientFlags
	Output string
}

func NewBackupCommand(cfg *config.Config) *BackupCommand {
	return &BackupCommand{cfg: cfg}
}

func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Output, "out", "", "Backup file (default stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup [-out file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Back up every cached record, including unsynced changes. Credentials are not included.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *BackupCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	var w io.Writer = os.Stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		defer f.Close()
		w = f
	}

	info, err := localstore.Backup(ctx, env.backend, w)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Backup %s: %d records in %d collections\n", info.BackupID, info.Records, info.Collections)
	return nil
}

// RestoreCommand replaces cached collections with those in a backup.
type RestoreCommand struct {
	cfg    *config.Config
	client clientFlags
	Input  string
}

func NewRestoreCommand(cfg *config.Config) *RestoreCommand {
	return &RestoreCommand{cfg: cfg}
}

func (cmd *RestoreCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Input, "in", "", "Backup file to restore (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s restore -in file\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Restore collections from a backup. Collections missing from the backup are kept.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Input == "" {
		return fmt.Errorf("required flag -in not provided")
	}
	return nil
}

func (cmd *RestoreCommand) Run() error {
	f, err := os.Open(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	info, err := localstore.Restore(ctx, env.backend, f)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Printf("Restored backup %s from %s: %d records in %d collections\n",
		info.BackupID, formatDate(info.CreatedAt), info.Records, info.Collections)
	return nil
}

// StorageCommand reports what the local cache holds.
type StorageCommand struct {
	cfg    *config.Config
	client clientFlags
}

func NewStorageCommand(cfg *config.Config) *StorageCommand {
	return &StorageCommand{cfg: cfg}
}

func (cmd *StorageCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("storage", flag.ExitOnError)
	cmd.client.register(fs, cmd.cfg)
	return fs.Parse(args)
}

func (cmd *StorageCommand) Run() error {
	env, err := openClient(cmd.cfg, cmd.client)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	usage, err := localstore.StorageUsage(ctx, env.backend)
	if err != nil {
		return err
	}

	fmt.Println("Local Storage")
	fmt.Println("=============")
	fmt.Printf("Backend: %s\n", usage.Backend)
	fmt.Printf("Path:    %s (%d bytes on disk)\n\n", usage.Path, usage.FileBytes)

	names := make([]string, 0, len(usage.Collections))
	for name := range usage.Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	w := newTable("COLLECTION", "RECORDS", "PENDING", "BYTES")
	for _, name := range names {
		c := usage.Collections[name]
		row(w, name, c.Records, c.Pending, c.Bytes)
	}
	row(w, "total", usage.TotalRecords, usage.TotalPending, usage.TotalBytes)
	return w.Flush()
}
