package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"audiosort/internal/organizer"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Print the library path each file would be sorted to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}

			org := organizer.New(cfg, nil, logger)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0
			for _, path := range args {
				mapping, err := org.Locate(cmd.Context(), path, outputDir)
				if err != nil {
					failed++
					f := organizer.Failure{Source: path, Err: err}
					fmt.Fprintln(out, renderFailureLine(path, err, outcomeKind(f.Outcome()), colorize))
					continue
				}
				fmt.Fprintln(out, renderMoveLine(path, mapping.Destination, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be classified", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Library root to prefix (defaults to paths.output_dir)")
	return cmd
}
