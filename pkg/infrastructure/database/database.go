package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const mysqlScheme = "mysql://"

// Open connects to the stock catalog database and checks the connection
func Open(ctx context.Context, driver, url string) (*sql.DB, error) {
	dsn, err := dataSourceName(driver, url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", driver, err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping the database: %w", err)
	}

	return db, nil
}

// dataSourceName converts a configured URL into the form database/sql expects.
// MySQL URLs may carry the mysql:// scheme used by migrations.
func dataSourceName(driver, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("database url is not set")
	}
	switch driver {
	case DriverPostgres:
		return url, nil
	case DriverMySQL:
		return strings.TrimPrefix(url, mysqlScheme), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// migrationURL converts a configured URL into the form golang-migrate expects
func migrationURL(driver, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("database url is not set")
	}
	switch driver {
	case DriverPostgres:
		return url, nil
	case DriverMySQL:
		if strings.HasPrefix(url, mysqlScheme) {
			return url, nil
		}
		return mysqlScheme + url, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
