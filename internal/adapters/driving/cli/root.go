// Package cli implements the driving CLI adapter using cobra.
// Commands are thin: they parse flags, call driving ports and print.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/core/ports/driving"
	"github.com/custodia-labs/snapshop/internal/logger"
)

// Services injected by main at startup. Commands check for nil and fail
// with a clear message instead of panicking.
var (
	indexer          driving.Indexer
	searchService    driving.ImageSearchService
	generateService  driving.GenerateService
	analyticsService driving.AnalyticsService
	configStore      driven.ConfigStore
	importProducts   ImportFunc
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "snapshop",
	Short: "Visual product search backend",
	Long: `Snapshop indexes a product catalog into an external embedding service
and matches uploaded photos against that index, enriching the raw matches
with live catalog data.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// Config holds the services the CLI drives.
type Config struct {
	Indexer          driving.Indexer
	SearchService    driving.ImageSearchService
	GenerateService  driving.GenerateService
	AnalyticsService driving.AnalyticsService
	ConfigStore      driven.ConfigStore
	ImportProducts   ImportFunc
}

// Configure injects the services the commands call.
func Configure(cfg Config) {
	indexer = cfg.Indexer
	searchService = cfg.SearchService
	generateService = cfg.GenerateService
	analyticsService = cfg.AnalyticsService
	configStore = cfg.ConfigStore
	importProducts = cfg.ImportProducts
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// tenant returns the application and company ids, preferring the flag
// values and falling back to configuration.
func tenant(appFlag, companyFlag string) (appID, companyID string) {
	appID = appFlag
	companyID = companyFlag
	if configStore != nil {
		if appID == "" {
			appID = configStore.GetString("tenant.application_id")
		}
		if companyID == "" {
			companyID = configStore.GetString("tenant.company_id")
		}
	}
	return appID, companyID
}
