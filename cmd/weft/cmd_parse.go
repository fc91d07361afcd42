package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var asExpression bool
	var asType bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a source file and dump its syntax tree",
		Long: `Parse a source file (or standard input with "-") and print the concrete
syntax tree. Diagnostics go to standard error; the tree is printed even when
the input has syntax errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}

			entry := parser.Parse
			switch {
			case asExpression && asType:
				return fmt.Errorf("--expr and --type are mutually exclusive")
			case asExpression:
				entry = parser.ParseExpression
			case asType:
				entry = parser.ParseType
			}

			tokens := syntax.Tokenize(src.Text, src.Name)
			opts := append(a.parserOptions(), parser.WithFile(src.Name))
			root, diags, err := entry(tokens, opts...)
			if err != nil {
				return fmt.Errorf("parse %s: %w", src.Name, err)
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				var data []byte
				if includePositions {
					data, err = root.MarshalJSON()
				} else {
					data, err = root.MarshalJSONCompact()
				}
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "tree":
				if includePositions {
					fmt.Fprint(out, root.StringWithPositions())
				} else {
					fmt.Fprint(out, root.String())
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			style := a.diagnosticStyle()
			for _, d := range diags {
				parser.PrintDiagnosticStyled(cmd.ErrOrStderr(), d, src, style)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include spans in the output")
	cmd.Flags().BoolVar(&asExpression, "expr", false, "parse the input as a single expression")
	cmd.Flags().BoolVar(&asType, "type", false, "parse the input as a single type")

	return cmd
}
