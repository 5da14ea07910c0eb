package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

var (
	searchAppID     string
	searchCompanyID string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <image-file>",
	Short: "Search the catalog by product photo",
	Long: `Matches an image file against the embedding index and prints the
enriched catalog results in relevance order.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchAppID, "app", "", "application id (defaults from config)")
	searchCmd.Flags().StringVar(&searchCompanyID, "company", "", "company id (defaults from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	path := args[0]
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	appID, companyID := tenant(searchAppID, searchCompanyID)
	query := domain.ImageQuery{
		Image:         image,
		MimeType:      mime.TypeByExtension(filepath.Ext(path)),
		FileName:      filepath.Base(path),
		ApplicationID: appID,
		CompanyID:     companyID,
	}

	results, err := searchService.SearchByImage(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No matching products found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%s)\n", i+1, r.Name, r.Slug)
		if r.Brand != "" {
			cmd.Printf("      Brand: %s\n", r.Brand)
		}
		if r.ShortDescription != "" {
			cmd.Printf("      %s\n", r.ShortDescription)
		}
	}
	return nil
}
