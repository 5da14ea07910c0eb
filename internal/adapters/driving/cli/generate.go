package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	generateAppID     string
	generateCompanyID string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a product image from a text prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateAppID, "app", "", "application id (defaults from config)")
	generateCmd.Flags().StringVar(&generateCompanyID, "company", "", "company id (defaults from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateService == nil {
		return errors.New("generate service not configured")
	}

	appID, companyID := tenant(generateAppID, generateCompanyID)
	url, err := generateService.Generate(context.Background(), args[0], appID, companyID)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	cmd.Printf("Image published at %s\n", url)
	return nil
}
