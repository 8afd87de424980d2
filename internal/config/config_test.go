package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: f1insight
  environment: development
  log_level: debug
database:
  host: localhost
  port: 5432
  name: f1insight
  user: f1insight
  password: ${TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
ergast:
  base_url: https://api.jolpi.ca/ergast/f1
  page_size: 100
  rate_limit: 0.5
  timeout_seconds: 30
  max_retries: 5
sweep:
  cron: "0 2 * * *"
  data_sync_cron: "0 1 * * *"
  batch_timeout_seconds: 600
metrics:
  enabled: true
  port: 9090
  path: /metrics
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "f1insight", cfg.App.Name)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "0 2 * * *", cfg.Sweep.Cron)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.App.Environment = "flying-lap"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadCron(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.Sweep.Cron = "not a cron"
	assert.Error(t, Validate(cfg))
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "f1insight", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 100, cfg.Ergast.PageSize)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, Name: "f1", User: "u", Password: "p", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5432/f1?sslmode=disable", cfg.GetDatabaseDSN())
}
