// Package cmd implements the CLI command structure for tasklink.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/nibzard/tasklink/internal/appdir"
	"github.com/nibzard/tasklink/internal/config"
	"github.com/nibzard/tasklink/internal/logging"
	"github.com/nibzard/tasklink/internal/tracker"
)

// Version is set via ldflags at build time.
var Version = "dev"

const (
	msgNoCommand = "No valid command provided. Use --help for options."
	msgNotFound  = "Task not found!"
)

// Run executes the tasklink CLI with stdout and stderr.
func Run(ctx context.Context, args []string) error {
	return NewRootCommand(os.Stdout, os.Stderr).Run(ctx, append([]string{appdir.Name}, args...))
}

// NewRootCommand returns the top-level CLI command. Command results are
// written to out; logs, hook output and usage errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:            appdir.Name,
		Usage:           "Track tasks and link them to tagged files in your documents folder",
		Version:         Version,
		Writer:          out,
		ErrWriter:       errOut,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "create",
				Aliases: []string{"c"},
				Usage:   "Create a new task with `DESCRIPTION`",
				Local:   true,
			},
			&cli.StringFlag{
				Name:    "update",
				Aliases: []string{"u"},
				Usage:   "Link files tagged [`DESCRIPTION`] to the task",
				Local:   true,
			},
			&cli.StringFlag{
				Name:    "mark-complete",
				Aliases: []string{"m"},
				Usage:   "Mark the task with `DESCRIPTION` as completed",
				Local:   true,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Task file `PATH` (default: tasks.json in the working directory)",
			},
			&cli.StringFlag{
				Name:  "docs-dir",
				Usage: "Directory scanned for tagged files (default: ~/Documents)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file `PATH`, replacing the project config lookup",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Console log level (debug|info|warn|error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Console log format (text|json|logfmt)",
			},
		},
		Commands: []*cli.Command{
			newListCommand(),
			newHistoryCommand(),
			newDoctorCommand(),
			newTUICommand(),
			newInitCommand(),
		},
		Action: rootAction,
	}
}

// rootAction dispatches the flag commands. The first one present wins, in
// the order create, update, mark-complete.
func rootAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	var run func(*tracker.Tracker, context.Context, string) (tracker.Outcome, error)
	var arg string
	switch {
	case cmd.IsSet("create"):
		run, arg = (*tracker.Tracker).Create, cmd.String("create")
	case cmd.IsSet("update"):
		run, arg = (*tracker.Tracker).Update, cmd.String("update")
	case cmd.IsSet("mark-complete"):
		run, arg = (*tracker.Tracker).MarkComplete, cmd.String("mark-complete")
	default:
		fmt.Fprintln(out, msgNoCommand)
		return nil
	}

	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	outcome, err := run(env.tracker, ctx, arg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, outcomeMessage(outcome))
	return nil
}

// outcomeMessage renders the single stdout line for a command result.
func outcomeMessage(o tracker.Outcome) string {
	if !o.Found {
		return msgNotFound
	}
	switch o.Action {
	case tracker.ActionCreate:
		return fmt.Sprintf("Task created: %s", o.Task.Description)
	case tracker.ActionUpdate:
		return fmt.Sprintf("Task '%s' updated with linked files!", o.Task.Description)
	case tracker.ActionComplete:
		return fmt.Sprintf("Task '%s' marked as completed!", o.Task.Description)
	}
	return ""
}

// env is the per-invocation state shared by commands.
type env struct {
	cfg     *config.ConfigWithSources
	logger  *log.Logger
	tracker *tracker.Tracker
	out     io.Writer
	errOut  io.Writer
}

// newEnv loads configuration with CLI flags as the highest-priority layer
// and builds the logger and tracker from it.
func newEnv(cmd *cli.Command) (*env, error) {
	root := cmd.Root()
	opts := config.LoadOptions{ConfigFile: cmd.String("config")}
	opts.Overrides.StoreFile = stringFlag(cmd, "store")
	opts.Overrides.DocsDir = stringFlag(cmd, "docs-dir")
	opts.Overrides.LogLevel = stringFlag(cmd, "log-level")
	opts.Overrides.LogFormat = stringFlag(cmd, "log-format")

	cws, err := config.LoadWithSources(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config

	logger := logging.NewConsole(root.ErrWriter, logging.ConsoleOptions{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
	for _, w := range cws.Warnings {
		logger.Warn(w)
	}
	logger.Debug("config loaded", "files", cfg.Files, "store", cfg.StoreFile)

	tr := tracker.New(cfg, logger)
	tr.SetHookOutput(root.ErrWriter)

	return &env{
		cfg:     cws,
		logger:  logger,
		tracker: tr,
		out:     root.Writer,
		errOut:  root.ErrWriter,
	}, nil
}

func stringFlag(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}
