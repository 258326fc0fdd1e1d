package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v3"

	"github.com/nibzard/tasklink/internal/appdir"
	"github.com/nibzard/tasklink/internal/config"
)

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write an example " + appdir.ConfigFile + " to the working directory",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("unexpected arguments: %v", cmd.Args().Slice()[1:])
	}
	dir := cmd.Args().First()
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	path := filepath.Join(dir, appdir.ConfigFile)
	_, statErr := os.Stat(path)
	existed := statErr == nil
	if existed && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(config.ExampleConfig())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !existed {
		// atomic creates new files 0600
		if err := os.Chmod(path, 0o644); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}
	fmt.Fprintf(cmd.Root().Writer, "Wrote %s\n", path)
	return nil
}
