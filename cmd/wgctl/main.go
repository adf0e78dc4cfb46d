package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/werkgeheugen/backend/cmd/wgctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "wgctl",
		Short: "Admin tool for the Werkgeheugen backend",
		Long:  "CLI tool for exporting tasks, running migrations and sharing poll summaries",
	}

	rootCmd.AddCommand(commands.NewExportCmd())
	rootCmd.AddCommand(commands.NewSummaryCmd())
	rootCmd.AddCommand(commands.NewMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
