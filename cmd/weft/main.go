package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "weft",
		Short:        "An error-resilient parser for Flix source code",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to weft.toml (default $WEFT_CONFIG, then ./weft.toml)")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newResilienceCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
