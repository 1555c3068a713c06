package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codelock",
	Short: "Codelock simulates a four-digit code lock controller.",
	Long: `Codelock simulates a four-digit code lock controller cycle by ` +
		`cycle. It can play scripted scenarios against a full test bench ` +
		`or drive a bare controller interactively.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
