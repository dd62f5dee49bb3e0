package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardpost/wardpost/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wardpost version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wardpost %s (built %s)\n", build.FullVersion(), build.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
