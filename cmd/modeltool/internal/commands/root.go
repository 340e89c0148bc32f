// Package commands implements the modeltool CLI: classifier training and
// training-data export.
package commands

import (
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modeltool",
		Short: "Train and inspect the transaction category classifier",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newTrainCommand(),
		newExportTrainingCommand(),
		newTokenCommand(),
	)

	return rootCmd
}
