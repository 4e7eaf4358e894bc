package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"audiosort/internal/history"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous sort runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					doc := make([]runJSON, 0, len(runs))
					for _, run := range runs {
						doc = append(doc, newRunJSON(run))
					}
					return writeJSON(cmd, doc)
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.ID),
						run.StartedAt.Local().Format(historyTimeLayout),
						string(run.Status),
						formatCount(run.MovedCount),
						formatCount(run.FailedCount),
						run.InputDir,
					})
				}
				headers := []string{"Run", "Started", "Status", "Moved", "Failed", "Input"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the moves recorded for a run (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %q not found", args[0])
				}
				moves, err := store.ListMoves(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Status:   %s\n", run.Status)
				fmt.Fprintf(out, "Input:    %s\n", run.InputDir)
				fmt.Fprintf(out, "Output:   %s\n", run.OutputDir)
				fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(historyTimeLayout))
				if run.FinishedAt != nil {
					fmt.Fprintf(out, "Finished: %s (%s)\n", run.FinishedAt.Local().Format(historyTimeLayout), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
				}
				if len(moves) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(moves))
				for _, m := range moves {
					detail := m.Destination
					if m.Error != "" {
						detail = m.Error
					}
					rows = append(rows, []string{string(m.Outcome), relativeTo(run.InputDir, m.Source), detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Outcome", "Source", "Destination / error"}, rows, nil))
				return nil
			})
		},
	}
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
