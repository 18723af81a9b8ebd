package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/picking/pkg/infrastructure/config"
	"github.com/vsinha/picking/pkg/infrastructure/database"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/csv"
	sqlstore "github.com/vsinha/picking/pkg/infrastructure/repositories/sql"
)

// SeedCommand replaces the database catalog with the content of a scenario directory
type SeedCommand struct {
	settings    *config.Config
	scenarioDir string
	logger      *zap.Logger
}

func NewSeedCommand(settings *config.Config, scenarioDir string, logger *zap.Logger) *SeedCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedCommand{settings: settings, scenarioDir: scenarioDir, logger: logger}
}

func (c *SeedCommand) Execute(ctx context.Context) error {
	if c.scenarioDir == "" {
		return fmt.Errorf("validation error: --scenario is required")
	}
	if c.settings.Database.URL == "" {
		return fmt.Errorf("validation error: database url is required (set %s)", config.EnvDatabaseURL)
	}

	scenario, err := csv.NewLoader().LoadScenario(c.scenarioDir)
	if err != nil {
		return fmt.Errorf("error loading scenario: %w", err)
	}

	db, err := database.Open(ctx, c.settings.Database.Driver, c.settings.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlstore.NewStore(db, c.settings.Database.Driver)
	if err := store.Seed(ctx, scenario.Products, scenario.BinLocations, scenario.Batches, scenario.Stocks); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	c.logger.Info("Seeded database",
		zap.String("driver", c.settings.Database.Driver),
		zap.Int("products", len(scenario.Products)),
		zap.Int("bins", len(scenario.BinLocations)),
		zap.Int("batches", len(scenario.Batches)),
		zap.Int("stocks", len(scenario.Stocks)))
	return nil
}
