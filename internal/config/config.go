// Package config loads node configuration from defaults, an optional TOML
// file, and AUCTIOND_-prefixed environment variables, in that priority
// order.
package config

import (
	"fmt"
	"time"
)

// Config is the complete node configuration
type Config struct {
	// Server settings
	Server ServerConfig `mapstructure:"server"`

	// Ledger settings
	Ledger LedgerConfig `mapstructure:"ledger"`

	// Storage settings
	Storage StorageConfig `mapstructure:"storage"`

	// History settings
	History HistoryConfig `mapstructure:"history"`

	configPath string
}

// ServerConfig holds the RPC listen settings
type ServerConfig struct {
	BindAddr string `mapstructure:"bind_addr"`
	Port     int    `mapstructure:"port"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddr, s.Port)
}

// LedgerConfig holds engine and close-loop settings
type LedgerConfig struct {
	BaseFee       uint64        `mapstructure:"base_fee"`
	Standalone    bool          `mapstructure:"standalone"`
	CloseInterval time.Duration `mapstructure:"close_interval"`
	CacheSize     int           `mapstructure:"cache_size"`
	GenesisSupply uint64        `mapstructure:"genesis_supply"`
}

// StorageConfig holds the key-value store settings
type StorageConfig struct {
	// DataDir is where ledger databases live; empty runs in memory
	DataDir string `mapstructure:"data_dir"`
}

// HistoryConfig holds the relational history store settings
type HistoryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ConfigPath returns the file the configuration was loaded from, empty
// when running on defaults.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Ledger.BaseFee == 0 {
		return fmt.Errorf("base fee must be positive")
	}
	if !c.Ledger.Standalone && c.Ledger.CloseInterval <= 0 {
		return fmt.Errorf("close interval must be positive")
	}
	if c.History.Enabled {
		switch c.History.Driver {
		case "sqlite":
			if c.History.Path == "" {
				return fmt.Errorf("sqlite history requires history.path")
			}
		case "postgres":
			if c.History.Host == "" || c.History.Database == "" {
				return fmt.Errorf("postgres history requires history.host and history.database")
			}
		default:
			return fmt.Errorf("unknown history driver %q", c.History.Driver)
		}
	}
	return nil
}
