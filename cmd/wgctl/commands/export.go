package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/werkgeheugen/backend/internal/config"
	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/export"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks",
		Long:  "Export all tasks as JSON or CSV, to stdout or a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			taskRepo := database.NewTaskRepository(db)
			tasks, err := taskRepo.List(context.Background(), nil, nil)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", err)
					}
				}()
				out = f
			}

			if err := export.Write(out, export.ParseFormat(format), tasks); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			if output != "" {
				fmt.Fprintf(os.Stderr, "Exported %d tasks to %s\n", len(tasks), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
