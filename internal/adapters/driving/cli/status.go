package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusAppID string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current indexing run status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAppID, "app", "", "application id (defaults from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	appID, _ := tenant(statusAppID, "")
	if appID == "" {
		return errors.New("application id required (--app or tenant.application_id in config)")
	}

	run, err := indexer.Status(context.Background(), appID)
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}

	if run.UpdatedAt.IsZero() {
		cmd.Printf("%s: %s\n", appID, run.Status)
		return nil
	}
	cmd.Printf("%s: %s (updated %s)\n", appID, run.Status, run.UpdatedAt.Format(time.RFC3339))
	return nil
}
