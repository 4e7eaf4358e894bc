package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"audiosort/internal/history"
	"audiosort/internal/organizer"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var inputDir string
	var outputDir string
	var assumeYes bool
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Move tagged audio files from an input tree into the library",
		Long: `Scan the input directory, print where every file would go, and move
them after confirmation. Files that cannot be sorted stay where they are.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(inputDir) == "" {
				inputDir = cfg.Paths.InputDir
			}
			if strings.TrimSpace(outputDir) == "" {
				outputDir = cfg.Paths.OutputDir
			}
			if inputDir == "" || outputDir == "" {
				return errors.New("input and output directories are required (use -i/-o or paths.input_dir/paths.output_dir)")
			}

			logger, closeLog, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			// Planning never touches the journal; it is opened only to apply.
			plan, err := organizer.New(cfg, nil, logger).Plan(cmd.Context(), inputDir, outputDir)
			if err != nil {
				return err
			}
			apply := func() (*organizer.Result, error) {
				var result *organizer.Result
				err := ctx.withJournal(func(store *history.Store) error {
					var applyErr error
					result, applyErr = organizer.New(cfg, store, logger).Apply(cmd.Context(), plan)
					return applyErr
				})
				return result, err
			}

			if jsonOutput {
				return runSortJSON(cmd, plan, apply, dryRun, assumeYes)
			}

			out := cmd.OutOrStdout()
			printPlan(out, plan, shouldColorize(out))
			if len(plan.Mappings) == 0 {
				fmt.Fprintln(out, "Nothing to move")
				return nil
			}
			if dryRun {
				return nil
			}
			if !assumeYes {
				ok, err := confirm(cmd.InOrStdin(), out, "Move files? (y|N) ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			result, err := apply()
			if err != nil {
				return err
			}
			printResult(out, result, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "in", "i", "", "Directory to scan (defaults to paths.input_dir)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Library root (defaults to paths.output_dir)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Move without prompting")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan and exit without moving anything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the plan as JSON (moves only with --yes)")
	return cmd
}

// runSortJSON never prompts: stdout belongs to the JSON document.
func runSortJSON(cmd *cobra.Command, plan *organizer.Plan, apply func() (*organizer.Result, error), dryRun, assumeYes bool) error {
	doc := newPlanJSON(plan)
	if !dryRun && assumeYes && len(plan.Mappings) > 0 {
		result, err := apply()
		if err != nil {
			return err
		}
		doc.Applied = newApplyJSON(result)
	}
	return writeJSON(cmd, doc)
}

func printPlan(out io.Writer, plan *organizer.Plan, colorize bool) {
	if len(plan.Mappings) > 0 {
		rows := make([][]string, 0, len(plan.Mappings))
		for _, m := range plan.Mappings {
			rows = append(rows, []string{
				relativeTo(plan.InputDir, m.Source),
				relativeTo(plan.OutputDir, m.Destination),
				string(m.Category),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Destination", "Type"}, rows, nil))
	}
	for _, f := range plan.Failures {
		fmt.Fprintln(out, renderFailureLine(relativeTo(plan.InputDir, f.Source), f.Err, outcomeKind(f.Outcome()), colorize))
	}
	fmt.Fprintf(out, "%d to move, %d failed\n", len(plan.Mappings), len(plan.Failures))
}

func printResult(out io.Writer, result *organizer.Result, colorize bool) {
	for _, f := range result.Failures {
		fmt.Fprintln(out, renderFailureLine(f.Source, f.Err, outcomeKind(f.Outcome()), colorize))
	}
	fmt.Fprintf(out, "Moved %d files, %d failed (run %s)\n", len(result.Moved), len(result.Failures), shortRunID(result.RunID))
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y", nil
}

func relativeTo(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func shortRunID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}
