// todomatic is a terminal task list. It loads tasks and their assignees
// from a remote JSON API once at start-up and keeps every change in
// memory for the rest of the session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"todomatic/internal/config"
	"todomatic/internal/journal"
	"todomatic/internal/remote"
	"todomatic/internal/ui"
)

const version = "0.3.0"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var configPath string
	var logOutput string
	var diagnostics int
	var showVersion bool

	flagSet := pflag.NewFlagSet("todomatic", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config.toml (default: $TODOMATIC_CONFIG or the user config dir)")
	flagSet.StringVar(&logOutput, "log-output", "", "also write JSON log records to this file")
	flagSet.IntVar(&diagnostics, "diagnostics", 0, "print the last N diagnostic journal entries and exit")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "todomatic %s\n", version)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open diagnostics journal: %w", err)
	}
	defer j.Close()

	if diagnostics > 0 {
		return printDiagnostics(context.Background(), stdout, j, diagnostics)
	}

	session := uuid.New().String()
	logger, closeLog, err := newLogger(j, session, logOutput)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("session started", "version", version, "tasks_url", cfg.TasksURL, "users_url", cfg.UsersURL)
	source := remote.NewClient(cfg.TasksURL, cfg.UsersURL, cfg.RequestTimeout.Duration)
	if err := ui.Run(cfg, source, logger); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func printDiagnostics(ctx context.Context, w io.Writer, j *journal.Journal, limit int) error {
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no diagnostics recorded")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s %-5s %s", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Level, e.Message)
		if e.Attrs != "" {
			line += " " + e.Attrs
		}
		if e.Session != "" {
			line += " session=" + e.Session
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `todomatic: a terminal task list.

Loads tasks and users from the configured JSON endpoints once at start-up.
Adds, edits, completions and deletions live in memory until you quit.

Usage:
  todomatic [flags]

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
