package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/picking/pkg/infrastructure/config"
	"github.com/vsinha/picking/pkg/infrastructure/database"
)

// MigrateCommand applies the schema migrations to the configured database
type MigrateCommand struct {
	settings *config.Config
	dir      string
	verbose  bool
	logger   *zap.Logger
}

// NewMigrateCommand creates a migrate command; an empty dir uses the
// configured migrations directory
func NewMigrateCommand(settings *config.Config, dir string, verbose bool, logger *zap.Logger) *MigrateCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = settings.Database.MigrationsDir
	}
	return &MigrateCommand{settings: settings, dir: dir, verbose: verbose, logger: logger}
}

func (c *MigrateCommand) Execute() error {
	if c.settings.Database.URL == "" {
		return fmt.Errorf("database url is required (set %s)", config.EnvDatabaseURL)
	}
	if err := database.Migrate(c.settings.Database.Driver, c.settings.Database.URL, c.dir, c.verbose, c.logger); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
