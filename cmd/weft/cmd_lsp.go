package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/weft/lang/codebase"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(Version().Core(),
				codebase.WithCodebaseOptions(a.codebaseOptions()...),
				codebase.WithWatchInterval(a.cfg.Codebase.WatchInterval.Duration),
			)
			return server.RunStdio()
		},
	}
}
