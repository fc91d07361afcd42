package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dhamidi/weft/lang/syntax"
)

func newTokensCmd() *cobra.Command {
	var skipComments bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Position", "Kind", "Literal"})
			table.SetAutoWrapText(false)
			for _, tok := range syntax.Tokenize(src.Text, src.Name) {
				if skipComments && tok.Kind.IsComment() {
					continue
				}
				table.Append([]string{tok.Span.Start.String(), tok.Kind.String(), strconv.Quote(tok.Literal)})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipComments, "skip-comments", false, "leave comment tokens out")

	return cmd
}
