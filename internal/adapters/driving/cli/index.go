package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

var (
	indexAppID string
	indexWait  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the full catalog into the embedding store",
	Long: `Triggers a full-catalog indexing run. The run proceeds in the
background; use --wait to poll until it completes or fails, or poll
"snapshop status" separately.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexAppID, "app", "", "application id (defaults from config)")
	indexCmd.Flags().BoolVar(&indexWait, "wait", true, "poll until the run finishes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	appID, _ := tenant(indexAppID, "")
	if appID == "" {
		return errors.New("application id required (--app or tenant.application_id in config)")
	}

	ctx := context.Background()
	receipt, err := indexer.Trigger(ctx, appID)
	if err != nil {
		if errors.Is(err, domain.ErrNoProductsToIndex) {
			return fmt.Errorf("nothing to index: the catalog for %s is empty", appID)
		}
		return fmt.Errorf("trigger indexing: %w", err)
	}

	cmd.Printf("Indexing started: %d products in %d chunks.\n", receipt.ProductCount, receipt.ChunkCount)

	if !indexWait {
		cmd.Println("Poll progress with: snapshop status")
		return nil
	}

	return pollRun(ctx, cmd, appID)
}

// pollRun watches the run status until it reaches a terminal state.
func pollRun(ctx context.Context, cmd *cobra.Command, appID string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		run, err := indexer.Status(ctx, appID)
		if err != nil {
			return fmt.Errorf("poll status: %w", err)
		}

		switch run.Status {
		case domain.RunCompleted:
			cmd.Println("Indexing completed.")
			return nil
		case domain.RunFailed:
			return errors.New("indexing failed; see logs for the failing chunk")
		case domain.RunIdle, domain.RunInProgress:
			// keep polling
		}
	}
	return nil
}
