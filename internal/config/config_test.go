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
	cfg.Chart.File = "chart.yaml"
	cfg.Fund = FundConfig{Name: "treasury", Currency: "BRL"}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "ledger.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "fund", cfg.Chart.Template)
	assert.Empty(t, cfg.Chart.File)
	assert.Equal(t, "USD", cfg.Fund.Currency)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "ledger.db", cfg.Database.Path)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	t.Setenv("LEDGER_DB_PATH", "/var/lib/ledger/books.db")
	t.Setenv("LEDGER_LOG_LEVEL", "warn")
	t.Setenv("LEDGER_LOG_FORMAT", "json")
	t.Setenv("LEDGER_BUSY_TIMEOUT_MS", "250")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ledger/books.db", cfg.DBPath("/ignored"))
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.BusyTimeout())
	assert.Equal(t, "fund", cfg.Chart.Template)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("LEDGER_BUSY_TIMEOUT_MS", "soon")
	assert.Error(t, ApplyEnv(Default()))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestDBPathRelative(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/srv/books", "ledger.db"), cfg.DBPath("/srv/books"))
}
