package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vsinha/picking/pkg/application/dto"
	"github.com/vsinha/picking/pkg/application/services/orchestration"
	"github.com/vsinha/picking/pkg/domain/entities"
	"github.com/vsinha/picking/pkg/domain/repositories"
	"github.com/vsinha/picking/pkg/infrastructure/config"
	"github.com/vsinha/picking/pkg/infrastructure/database"
	"github.com/vsinha/picking/pkg/infrastructure/events"
	"github.com/vsinha/picking/pkg/infrastructure/features"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/picking/pkg/infrastructure/repositories/memory"
	sqlstore "github.com/vsinha/picking/pkg/infrastructure/repositories/sql"
	"github.com/vsinha/picking/pkg/interfaces/cli/output"
)

// Stock sources of the pick command
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// PickConfig holds configuration for the pick command
type PickConfig struct {
	ScenarioDir    string
	RequestFile    string
	Source         string
	Warehouses     []string
	Everywhere     bool
	OutputDir      string
	Format         string
	Verbose        bool
	Debug          bool
	FailOnShortage bool
	// BatchManagement, when set, overrides the configured and stored toggle
	BatchManagement *bool
}

// PickCommand loads stock, runs the picking service and writes the report
type PickCommand struct {
	config   PickConfig
	settings *config.Config
	logger   *zap.Logger
	out      io.Writer
}

// NewPickCommand creates a new pick command with the given configuration
func NewPickCommand(cfg PickConfig, settings *config.Config, logger *zap.Logger, out io.Writer) *PickCommand {
	if settings == nil {
		settings = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PickCommand{
		config:   cfg,
		settings: settings,
		logger:   logger,
		out:      out,
	}
}

// stockSources bundles the read side the engine needs
type stockSources struct {
	catalog  repositories.StockCatalogReader
	batches  repositories.BatchMetadataSource
	topology repositories.WarehouseTopologySource
	demand   []entities.ProductQuantity
	close    func() error
}

// Execute runs the pick command. A shortage is reported in the output and
// only returned as an error when FailOnShortage is set.
func (c *PickCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	area := c.area()

	sources, err := c.openSources(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sources.close(); err != nil {
			c.logger.Warn("Failed to close stock source", zap.Error(err))
		}
	}()

	request, err := entities.NewPickingRequest(sources.demand, area)
	if err != nil {
		return err
	}

	toggles, closeToggles := c.featureToggles()
	defer closeToggles()

	if c.config.Verbose {
		fmt.Fprintf(c.out, "📦 Picking %d products from %s (source: %s)\n", len(request.ProductsToPick), area, c.config.Source)
	}

	store := events.NewInMemoryEventStore(c.logger)
	service := orchestration.NewPickingService(sources.catalog, sources.batches, sources.topology, toggles, store, c.logger)

	report, err := service.Pick(ctx, *request)
	if err != nil {
		return err
	}
	store.Wait()

	if c.config.Debug {
		spew.Fdump(c.out, report)
	}

	if err := output.Generate(c.out, report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}); err != nil {
		return fmt.Errorf("failed to generate output: %w", err)
	}

	if c.config.Verbose {
		published, _ := store.ReadAllEvents(0)
		fmt.Fprintf(c.out, "✅ %s\n", report.GetSummary())
		fmt.Fprintf(c.out, "📣 %d events published\n", len(published))
	}

	if c.config.FailOnShortage && !report.IsComplete() {
		return shortageError(report)
	}
	return nil
}

func (c *PickCommand) validateInputs() error {
	switch c.config.Source {
	case SourceCSV:
		if c.config.ScenarioDir == "" {
			return fmt.Errorf("--scenario is required for the csv source")
		}
	case SourceDatabase:
		if c.settings.Database.URL == "" {
			return fmt.Errorf("database url is required for the database source (set %s)", config.EnvDatabaseURL)
		}
		if c.config.ScenarioDir == "" && c.config.RequestFile == "" {
			return fmt.Errorf("--request or --scenario is required for the database source")
		}
	default:
		return fmt.Errorf("unsupported source %q (expected %s or %s)", c.config.Source, SourceCSV, SourceDatabase)
	}

	if !c.config.Everywhere && len(c.config.Warehouses) == 0 {
		return fmt.Errorf("at least one --warehouse or --everywhere is required")
	}
	if c.config.Everywhere && len(c.config.Warehouses) > 0 {
		return fmt.Errorf("--warehouse and --everywhere are mutually exclusive")
	}

	switch c.config.Format {
	case output.FormatText, output.FormatJSON, output.FormatCSV, "":
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return nil
}

func (c *PickCommand) area() entities.StockArea {
	if c.config.Everywhere {
		return entities.AreaEverywhere()
	}
	ids := make([]entities.WarehouseID, 0, len(c.config.Warehouses))
	for _, id := range c.config.Warehouses {
		ids = append(ids, entities.WarehouseID(strings.TrimSpace(id)))
	}
	if len(ids) == 1 {
		return entities.AreaWarehouse(ids[0])
	}
	return entities.AreaWarehouses(ids...)
}

func (c *PickCommand) openSources(ctx context.Context) (*stockSources, error) {
	loader := csv.NewLoader()

	if c.config.Source == SourceCSV {
		scenario, err := loader.LoadScenario(c.config.ScenarioDir)
		if err != nil {
			return nil, fmt.Errorf("error loading scenario: %w", err)
		}
		if c.config.RequestFile != "" {
			if scenario.Demand, err = loader.LoadRequest(c.config.RequestFile); err != nil {
				return nil, fmt.Errorf("error loading request: %w", err)
			}
		}

		catalog := memory.NewStockCatalog(len(scenario.Stocks))
		if err := catalog.LoadStocks(scenario.Stocks); err != nil {
			return nil, fmt.Errorf("error loading stock: %w", err)
		}
		if err := catalog.LoadProducts(scenario.Products); err != nil {
			return nil, fmt.Errorf("error loading products: %w", err)
		}
		batches := memory.NewBatchRepository(len(scenario.Batches))
		if err := batches.LoadBatches(scenario.Batches); err != nil {
			return nil, fmt.Errorf("error loading batches: %w", err)
		}
		topology := memory.NewWarehouseTopology(len(scenario.BinLocations))
		if err := topology.LoadBinLocations(scenario.BinLocations); err != nil {
			return nil, fmt.Errorf("error loading bin locations: %w", err)
		}

		c.logger.Info("Loaded scenario",
			zap.String("dir", c.config.ScenarioDir),
			zap.Int("stocks", len(scenario.Stocks)),
			zap.Int("batches", len(scenario.Batches)),
			zap.Int("bins", len(scenario.BinLocations)))

		return &stockSources{
			catalog:  catalog,
			batches:  batches,
			topology: topology,
			demand:   scenario.Demand,
			close:    func() error { return nil },
		}, nil
	}

	requestFile := c.config.RequestFile
	if requestFile == "" {
		requestFile = filepath.Join(c.config.ScenarioDir, csv.RequestFile)
	}
	demand, err := loader.LoadRequest(requestFile)
	if err != nil {
		return nil, fmt.Errorf("error loading request: %w", err)
	}

	db, err := database.Open(ctx, c.settings.Database.Driver, c.settings.Database.URL)
	if err != nil {
		return nil, err
	}
	store := sqlstore.NewStore(db, c.settings.Database.Driver)

	return &stockSources{
		catalog:  store,
		batches:  store,
		topology: store,
		demand:   demand,
		close:    db.Close,
	}, nil
}

// featureToggles uses the explicit override when given, otherwise reads
// toggles from redis when an address is configured and falls back to the
// static configuration
func (c *PickCommand) featureToggles() (repositories.FeatureToggles, func()) {
	defaults := map[string]bool{
		repositories.FeatureBatchManagement: c.settings.Features.BatchManagement,
	}
	if c.config.BatchManagement != nil {
		defaults[repositories.FeatureBatchManagement] = *c.config.BatchManagement
	}

	if c.settings.Redis.Addr != "" && c.config.BatchManagement == nil {
		client := redis.NewClient(&redis.Options{Addr: c.settings.Redis.Addr})
		return features.NewRedisToggles(client, c.settings.Redis.KeyPrefix, defaults), func() {
			if err := client.Close(); err != nil {
				c.logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}
	}

	var enabled []string
	for feature, on := range defaults {
		if on {
			enabled = append(enabled, feature)
		}
	}
	return memory.NewFeatureToggles(enabled...), func() {}
}

func shortageError(report *dto.PickingReport) error {
	numbers := make([]string, len(report.Shortages))
	for i, shortage := range report.Shortages {
		numbers[i] = shortage.ProductNumber
	}
	return &entities.ShortageError{
		PartialSolution: report.Solution.Clone(),
		Shortages:       report.Shortages,
		ProductNumbers:  numbers,
	}
}
