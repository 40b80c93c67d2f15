package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:5005", cfg.Server.Addr())
	require.Equal(t, uint64(10), cfg.Ledger.BaseFee)
	require.Equal(t, 10*time.Second, cfg.Ledger.CloseInterval)
	require.False(t, cfg.Ledger.Standalone)
	require.False(t, cfg.History.Enabled)
	require.Empty(t, cfg.ConfigPath())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auctiond.toml")
	content := `
[server]
port = 6006

[ledger]
standalone = true
base_fee = 25

[history]
enabled = true
driver = "sqlite"
path = "/tmp/history.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 6006, cfg.Server.Port)
	require.Equal(t, "127.0.0.1", cfg.Server.BindAddr, "file overrides only what it sets")
	require.True(t, cfg.Ledger.Standalone)
	require.Equal(t, uint64(25), cfg.Ledger.BaseFee)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, path, cfg.ConfigPath())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AUCTIOND_SERVER_PORT", "7007")
	t.Setenv("AUCTIOND_LEDGER_BASE_FEE", "50")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7007, cfg.Server.Port)
	require.Equal(t, uint64(50), cfg.Ledger.BaseFee)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Ledger.BaseFee = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Ledger.CloseInterval = 0
	require.Error(t, cfg.Validate())

	// Standalone mode has no close loop to configure
	cfg.Ledger.Standalone = true
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.History.Enabled = true
	cfg.History.Driver = "oracle"
	require.Error(t, cfg.Validate())
}
