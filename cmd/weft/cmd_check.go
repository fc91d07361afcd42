package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/weft/lang/codebase"
	"github.com/dhamidi/weft/lang/parser"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Report syntax errors in source files",
		Long: `Parse every source file given on the command line, or found below a given
directory, and print its diagnostics. Exits non-zero when any file has
syntax errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			var files []string
			stdin := false
			for _, path := range paths {
				if path == "-" {
					stdin = true
					continue
				}
				files = append(files, path)
			}

			c := codebase.New(".", a.codebaseOptions()...)
			if err := c.ScanFiles(cmd.Context(), files); err != nil {
				return err
			}
			if stdin {
				src, err := readSource(cmd.InOrStdin(), "-")
				if err != nil {
					return err
				}
				// Internal parser errors are reported with the other files below.
				_ = c.UpdateFile(src.Name, src.Text)
			}

			style := a.diagnosticStyle()
			out := cmd.OutOrStdout()
			var errorCount, fileCount, internal int
			for _, f := range c.Files() {
				if f.ParseErr != nil {
					internal++
					fmt.Fprintf(out, "%s: %s\n", f.Path, color.New(color.FgMagenta).Sprint(f.ParseErr))
					continue
				}
				if len(f.Diagnostics) == 0 {
					continue
				}
				fileCount++
				errorCount += len(f.Diagnostics)
				for _, d := range f.Diagnostics {
					parser.PrintDiagnosticStyled(out, d, f.Source(), style)
				}
			}

			switch {
			case internal > 0:
				return fmt.Errorf("parser failed on %d of %d files", internal, len(paths))
			case errorCount > 0:
				return fmt.Errorf("%d syntax errors in %d of %d files", errorCount, fileCount, len(paths))
			}
			fmt.Fprintln(out, color.GreenString("%d files ok", len(paths)))
			return nil
		},
	}
}
