package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Import.Concurrency = 8
	cfg.Database.Enabled = true
	cfg.Database.Path = "data/lens.db"
	cfg.Logging.Format = "json"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 4, cfg.Import.Concurrency)
	assert.True(t, cfg.Import.MoveProcessed)
	assert.Equal(t, "ledger", cfg.Ledger.Dir)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "statementlens.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "Pacific/Auckland", cfg.Parsing.Timezone)
}

func TestLoad_MissingKeysTakeDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.Logging.Level)
	assert.Equal(t, "text", got.Logging.Format)
	assert.Equal(t, 4, got.Import.Concurrency)
	assert.Equal(t, "ledger", got.Ledger.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	t.Setenv("STATEMENTLENS_LOGGING_LEVEL", "warn")
	t.Setenv("STATEMENTLENS_IMPORT_CONCURRENCY", "2")
	t.Setenv("STATEMENTLENS_DATABASE_ENABLED", "true")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", got.Logging.Level)
	assert.Equal(t, 2, got.Import.Concurrency)
	assert.True(t, got.Database.Enabled)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STATEMENTLENS_PARSING_TIMEZONE", "UTC")

	got, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "UTC", got.Parsing.Timezone)
	assert.Equal(t, "info", got.Logging.Level)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "concurrency: 4")
	assert.Contains(t, contents, "move_processed: true")
	assert.Contains(t, contents, "timezone: Pacific/Auckland")
	assert.Contains(t, contents, "format: text")
}

func TestParsingLocation(t *testing.T) {
	loc, err := ParsingConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = ParsingConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = ParsingConfig{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
