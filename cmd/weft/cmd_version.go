package main

import (
	"fmt"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

func Version() semver.Version {
	return version
}

func newVersionCmd() *cobra.Command {
	showBuildInfo := false
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Fprintln(cmd.OutOrStdout(), Version().String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), Version().Core())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBuildInfo, "build-info", false, "include build information")
	return cmd
}
