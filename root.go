package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rps-supporter",
	Short: "Rock-paper-scissors assistant",
	Long: `rps-supporter watches an opponent's moves and recommends the counter to
their most likely next move, using first-order transition counts.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
