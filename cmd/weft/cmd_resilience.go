package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/weft/lang/resilience"
)

func newResilienceCmd(a *app) *cobra.Command {
	var showTrials bool
	var failUnder bool

	cmd := &cobra.Command{
		Use:   "resilience <path...>",
		Short: "Measure how well the parser recovers from single-token deletions",
		Long: `For every significant token of every given file, delete that token, parse
the damaged file, and compare its tree with the tree of the original. The
score of a trial is the share of the original tree that survives.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			h := resilience.NewHarness()
			h.Cutoff = a.cfg.Resilience.Cutoff
			h.Threshold = a.cfg.Resilience.Threshold
			h.Workers = a.cfg.Resilience.Workers
			h.ParseOptions = a.parserOptions()

			out := cmd.OutOrStdout()
			var reports []*resilience.Report
			below := 0
			for _, path := range paths {
				src, err := readSource(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				report, err := h.Run(cmd.Context(), src.Name, src.Text)
				if err != nil {
					return err
				}
				if report.Mean < h.Threshold {
					below++
				}
				if showTrials {
					fmt.Fprintf(out, "%s: worst %d trials\n", report.File, a.cfg.Resilience.Worst)
					report.RenderTrials(out, a.cfg.Resilience.Worst)
				}
				reports = append(reports, report)
			}
			resilience.RenderSummary(out, reports)

			if failUnder && below > 0 {
				return fmt.Errorf("%d of %d files have a mean ratio below %.2f", below, len(paths), h.Threshold)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTrials, "trials", false, "print the worst trials of every file")
	cmd.Flags().BoolVar(&failUnder, "fail-under", false, "exit non-zero when a file's mean ratio is below the threshold")

	return cmd
}
