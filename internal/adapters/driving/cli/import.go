package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// ImportFunc loads catalog items into the local document store stand-in.
type ImportFunc func(ctx context.Context, items []domain.CatalogItem) error

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Seed the local catalog from a JSON dump",
	Long: `Loads a JSON array of catalog items into the local document store.
The core treats the catalog as read-only; import exists only to seed a
local development store.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importProducts == nil {
		return errors.New("catalog store not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse dump: %w", err)
	}

	if err := importProducts(context.Background(), items); err != nil {
		return fmt.Errorf("import products: %w", err)
	}

	cmd.Printf("Imported %d products.\n", len(items))
	return nil
}
