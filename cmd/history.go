package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
)

func newHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent changes from the activity journal",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "Number of entries to show (0 for all)",
				Value:   20,
			},
		},
		Action: runHistory,
	}
}

func runHistory(_ context.Context, cmd *cli.Command) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	journal, err := env.tracker.Journal()
	if err != nil {
		return fmt.Errorf("locate journal: %w", err)
	}
	events, err := journal.Last(int(cmd.Int("lines")))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(env.out, "No activity recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	for _, ev := range events {
		detail := ev.Status
		if ev.Action == "update" {
			detail = fmt.Sprintf("%d files", len(ev.Linked))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ev.Time.Local().Format(time.DateTime), ev.Action, ev.Description, detail)
	}
	return tw.Flush()
}
