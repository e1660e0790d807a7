package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "flowctl drives declarative identity flows",
	Long:  `flowctl loads a flow definition (states.yaml + transitions.yaml) and runs, validates, or serves it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing states.yaml and transitions.yaml")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
