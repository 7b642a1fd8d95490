package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hoslog",
	Short: "hoslog – hours-of-service duty log and compliance checker",
	Long: `hoslog is a single-binary, file-based hours-of-service log keeper.
Duty-status events are stored as human-readable JSON files in ~/.hoslog/
and every report is recomputed from the raw event log.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(tripCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(eldCmd)
}
