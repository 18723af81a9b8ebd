package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"    // register mysql DB
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres DB
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source
)

// Migrate applies all pending migrations found in migrationsDir
func Migrate(driver, url, migrationsDir string, verbose bool, log *zap.Logger) error {
	log.Info("Running database migration", zap.String("driver", driver))

	dbURL, err := migrationURL(driver, url)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	dbMigrate, err := migrate.New("file://"+absPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to prepare migration: %w", err)
	}
	defer dbMigrate.Close()
	dbMigrate.Log = NewMigrationLogger(log, verbose)

	log.Info("Run registered migrations", zap.String("dir", absPath))
	if err := dbMigrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database migration: no change needed")
			return nil
		}
		log.Error("Database migration failed", zap.Error(err))
		return err
	}

	version, dirty, err := dbMigrate.Version()
	if err == nil {
		log.Info("Database migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
	return nil
}

// MigrationLogger forwards golang-migrate output to zap
type MigrationLogger struct {
	logger  *zap.Logger
	verbose bool
}

func NewMigrationLogger(logger *zap.Logger, verbose bool) *MigrationLogger {
	return &MigrationLogger{
		logger:  logger,
		verbose: verbose,
	}
}

func (l *MigrationLogger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("DB Migration: "+format, v...)
}

func (l *MigrationLogger) Verbose() bool {
	return l.verbose
}
