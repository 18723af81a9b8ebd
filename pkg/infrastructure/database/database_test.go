package database

import (
	"testing"
)

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		driver    string
		url       string
		dsn       string
		migration string
		wantErr   bool
	}{
		{DriverPostgres, "postgres://u:p@localhost:5432/picking?sslmode=disable", "postgres://u:p@localhost:5432/picking?sslmode=disable", "postgres://u:p@localhost:5432/picking?sslmode=disable", false},
		{DriverMySQL, "u:p@tcp(localhost:3306)/picking?parseTime=true", "u:p@tcp(localhost:3306)/picking?parseTime=true", "mysql://u:p@tcp(localhost:3306)/picking?parseTime=true", false},
		{DriverMySQL, "mysql://u:p@tcp(localhost:3306)/picking", "u:p@tcp(localhost:3306)/picking", "mysql://u:p@tcp(localhost:3306)/picking", false},
		{"sqlite", "file.db", "", "", true},
		{DriverPostgres, "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver+"_"+tt.url, func(t *testing.T) {
			dsn, err := dataSourceName(tt.driver, tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if dsn != tt.dsn {
				t.Errorf("Expected dsn %q, got %q", tt.dsn, dsn)
			}

			migration, err := migrationURL(tt.driver, tt.url)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if migration != tt.migration {
				t.Errorf("Expected migration url %q, got %q", tt.migration, migration)
			}
		})
	}
}
