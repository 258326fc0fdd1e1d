package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasklink/internal/task"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "Only show tasks with this status (initialized|completed)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text|json|yaml)",
				Value:   "text",
			},
		},
		Action: runList,
	}
}

func runList(_ context.Context, cmd *cli.Command) error {
	status, ok := task.ParseStatus(cmd.String("status"))
	if !ok {
		return fmt.Errorf("invalid status %q (expected initialized|completed)", cmd.String("status"))
	}
	format := cmd.String("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q (expected text|json|yaml)", format)
	}

	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	tasks, err := env.tracker.Tasks()
	if err != nil {
		return err
	}
	all := tasks
	if status != "" {
		tasks = task.FilterByStatus(tasks, status)
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		_, err = fmt.Fprintln(env.out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(env.out)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		return enc.Close()
	}
	return printTaskTable(env.out, tasks, all)
}

func printTaskTable(w io.Writer, tasks, all []task.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tFILES\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", shortID(t.ID), t.Status, len(t.LinkedFiles), t.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := task.CountByStatus(all)
	_, err := fmt.Fprintf(w, "\n%d tasks (%d initialized, %d completed)\n",
		len(all), counts[task.StatusInitialized], counts[task.StatusCompleted])
	return err
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
