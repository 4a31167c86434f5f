// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskward",
	Short: "Taskward is a web-based business management tool",
	Long: `Taskward is a web-based business management tool built around a
task hierarchy. This service hosts the access-control engine and the
administration API for group-task access bindings.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
