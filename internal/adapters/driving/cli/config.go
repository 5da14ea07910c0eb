package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and configure the AI service endpoint, tenant ids and other
options. Without a subcommand, shows the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Keys use dot notation, e.g.:
  ai.base_url              AI service endpoint
  ai.api_key               X-API-KEY header value
  ai.index_timeout_secs    per-chunk indexing deadline
  ai.search_timeout_secs   search and health deadline
  ai.requests_per_second   upstream request throttle
  index.chunk_size         products per indexing chunk
  tenant.application_id    default application id
  tenant.company_id        default company id`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[AI Service]")
	printConfigValue(cmd, "Base URL", configStore.GetString("ai.base_url"))
	if key := configStore.GetString("ai.api_key"); key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	printConfigInt(cmd, "Index timeout (s)", configStore.GetInt("ai.index_timeout_secs"))
	printConfigInt(cmd, "Search timeout (s)", configStore.GetInt("ai.search_timeout_secs"))
	printConfigInt(cmd, "Requests per second", configStore.GetInt("ai.requests_per_second"))
	cmd.Println()

	cmd.Println("[Indexing]")
	printConfigInt(cmd, "Chunk size", configStore.GetInt("index.chunk_size"))
	cmd.Println()

	cmd.Println("[Tenant]")
	printConfigValue(cmd, "Application id", configStore.GetString("tenant.application_id"))
	printConfigValue(cmd, "Company id", configStore.GetString("tenant.company_id"))
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if err := configStore.Set(key, parseConfigValue(args[1])); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

// parseConfigValue types raw flag input: bools and integers are stored
// typed so the typed getters find them, everything else stays a string.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

func printConfigValue(cmd *cobra.Command, label, value string) {
	if value == "" {
		value = "(default)"
	}
	cmd.Printf("  %s: %s\n", label, value)
}

func printConfigInt(cmd *cobra.Command, label string, value int) {
	if value == 0 {
		cmd.Printf("  %s: (default)\n", label)
		return
	}
	cmd.Printf("  %s: %d\n", label, value)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
