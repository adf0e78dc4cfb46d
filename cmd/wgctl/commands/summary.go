package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/config"
	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/poll"
	"github.com/werkgeheugen/backend/internal/pollstore"
)

// NewSummaryCmd creates the summary command
func NewSummaryCmd() *cobra.Command {
	var eventID string
	var remoteURL string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a poll status summary",
		Long:  "Print the shareable Dutch status summary for a poll event, from the local database or a remote planner document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			var doc *models.PlannerDocument
			if remoteURL != "" {
				client := pollstore.NewClient(remoteURL, zap.NewNop())
				doc, err = client.Fetch(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch remote planner: %w", err)
				}
			} else {
				db, err := database.New(cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer func() {
					if err := db.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
					}
				}()

				doc, err = database.NewPlannerRepository(db).Get(ctx)
				if err != nil {
					return fmt.Errorf("failed to load planner: %w", err)
				}
			}

			if len(doc.Events) == 0 {
				return fmt.Errorf("planner has no events")
			}

			event := doc.Events[0]
			if eventID != "" {
				if event = doc.Event(eventID); event == nil {
					return fmt.Errorf("event %q not found", eventID)
				}
			}

			fmt.Println(poll.GenerateSummary(event, cfg.PlannerAppURL))
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Event ID (default: first event)")
	cmd.Flags().StringVarP(&remoteURL, "remote", "r", "", "Fetch the planner document from this base URL instead of the database")

	return cmd
}
