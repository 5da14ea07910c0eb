package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the embedding service health",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	health := indexer.CheckHealth(context.Background())
	if !health.Healthy {
		return errors.New("embedding service unhealthy: " + health.Err)
	}

	cmd.Printf("Embedding service healthy: model=%s device=%s\n", health.Model, health.Device)
	return nil
}
