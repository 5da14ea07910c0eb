// Command snapshop runs the visual product search backend CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/snapshop/internal/adapters/driven/assets/local"
	configfile "github.com/custodia-labs/snapshop/internal/adapters/driven/config/file"
	"github.com/custodia-labs/snapshop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/snapshop/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/snapshop/internal/adapters/driven/visionapi"
	"github.com/custodia-labs/snapshop/internal/adapters/driving/cli"
	"github.com/custodia-labs/snapshop/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString(configfile.KeyDataDir))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	assets, err := local.NewAssetHost(cfg.GetString(configfile.KeyAssetsDir))
	if err != nil {
		return fmt.Errorf("open asset host: %w", err)
	}

	aiClient := visionapi.NewClient(visionapi.Config{
		BaseURL:       cfg.GetString(configfile.KeyAIBaseURL),
		APIKey:        cfg.GetString(configfile.KeyAIAPIKey),
		IndexTimeout:  time.Duration(cfg.GetInt(configfile.KeyAIIndexTimeout)) * time.Second,
		SearchTimeout: time.Duration(cfg.GetInt(configfile.KeyAISearchTimeout)) * time.Second,
		RequestRate:   float64(cfg.GetInt(configfile.KeyAIRequestRate)),
	})

	catalog := store.CatalogStore()
	events := store.EventLog()
	runs := memory.NewRunStatusStore()

	indexer := services.NewIndexingOrchestrator(catalog, runs, aiClient, cfg.GetInt(configfile.KeyIndexChunkSize))
	defer indexer.Wait()

	cli.Configure(cli.Config{
		Indexer:          indexer,
		SearchService:    services.NewSearchService(aiClient, catalog, events),
		GenerateService:  services.NewGenerateService(aiClient, assets, events),
		AnalyticsService: services.NewAnalyticsService(events),
		ConfigStore:      cfg,
		ImportProducts:   store.ImportProducts,
	})

	return cli.Execute()
}
