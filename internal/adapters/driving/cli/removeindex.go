package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeIndexAppID string

var removeIndexCmd = &cobra.Command{
	Use:   "remove-index",
	Short: "Delete the application's embedding index",
	RunE:  runRemoveIndex,
}

func init() {
	removeIndexCmd.Flags().StringVar(&removeIndexAppID, "app", "", "application id (defaults from config)")
	rootCmd.AddCommand(removeIndexCmd)
}

func runRemoveIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	appID, _ := tenant(removeIndexAppID, "")
	if appID == "" {
		return errors.New("application id required (--app or tenant.application_id in config)")
	}

	if err := indexer.RemoveIndex(context.Background(), appID); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	cmd.Printf("Index removed for application %s.\n", appID)
	return nil
}
