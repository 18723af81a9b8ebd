package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Features.BatchManagement)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeFile(t, "picking.yaml", `
database:
  driver: MySQL
  url: user:pass@tcp(localhost:3306)/picking
redis:
  addr: localhost:6379
features:
  batch_management: false
log:
  level: debug
`)
	t.Setenv(EnvBatchManagement, "true")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path, "")

	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/picking", cfg.Database.URL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "picking:feature:", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.Features.BatchManagement)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", EnvDatabaseURL+"=postgres://localhost/picking_test\n")
	t.Setenv(EnvDatabaseURL, "")
	require.NoError(t, os.Unsetenv(EnvDatabaseURL))

	cfg, err := Load("", envFile)

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/picking_test", cfg.Database.URL)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing_file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
		},
		{
			name: "invalid_yaml",
			setup: func(t *testing.T) string {
				return writeFile(t, "picking.yaml", "database: [")
			},
		},
		{
			name: "unsupported_driver",
			setup: func(t *testing.T) string {
				return writeFile(t, "picking.yaml", "database:\n  driver: sqlite\n")
			},
		},
		{
			name: "invalid_toggle",
			setup: func(t *testing.T) string {
				t.Setenv(EnvBatchManagement, "sometimes")
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.setup(t), "")
			assert.Error(t, err)
		})
	}
}
