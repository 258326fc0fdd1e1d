package cmd

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nibzard/tasklink/internal/logging"
	"github.com/nibzard/tasklink/internal/tracker"
	"github.com/nibzard/tasklink/internal/ui"
)

func newTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse, complete and re-link tasks in a terminal UI",
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	// Console logs and hook output would draw over the alternate screen.
	tr := tracker.New(env.cfg.Config, logging.Discard())
	tr.SetHookOutput(io.Discard)
	return ui.Run(ctx, tr)
}
