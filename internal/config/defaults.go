package config

import "github.com/spf13/viper"

// setDefaults applies the built-in defaults
func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.bind_addr", "127.0.0.1")
	v.SetDefault("server.port", 5005)

	// Ledger
	v.SetDefault("ledger.base_fee", 10)
	v.SetDefault("ledger.standalone", false)
	v.SetDefault("ledger.close_interval", "10s")
	v.SetDefault("ledger.cache_size", 256)
	v.SetDefault("ledger.genesis_supply", uint64(100_000_000_000_000_000))

	// Storage
	v.SetDefault("storage.data_dir", "")

	// History
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.path", "")
	v.SetDefault("history.host", "localhost")
	v.SetDefault("history.port", 5432)
	v.SetDefault("history.database", "auctiond")
	v.SetDefault("history.username", "auctiond")
	v.SetDefault("history.password", "")
	v.SetDefault("history.ssl_mode", "prefer")
}
