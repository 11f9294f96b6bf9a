// AngelaMos | 2026
// version.go

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propixel %s (commit %s, %s)\n",
				version, commit, runtime.Version())
		},
	}
}
