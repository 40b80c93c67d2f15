package history

import (
	"fmt"
	"net/url"
	"time"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains history store settings
type Config struct {
	Driver string `json:"driver" mapstructure:"driver"`

	// SQLite
	Path string `json:"path" mapstructure:"path"`

	// PostgreSQL
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Database string `json:"database" mapstructure:"database"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	SSLMode  string `json:"ssl_mode" mapstructure:"ssl_mode"`

	// Connection pool
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`

	DefaultTimeout time.Duration `json:"default_timeout" mapstructure:"default_timeout"`
}

// SQLiteConfig returns a file-backed SQLite configuration, the default for
// a single node.
func SQLiteConfig(path string) *Config {
	return &Config{
		Driver:          DriverSQLite,
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  30 * time.Second,
	}
}

// PostgresConfig returns a PostgreSQL configuration with pool defaults
func PostgresConfig(host string, port int, database, username, password string) *Config {
	return &Config{
		Driver:          DriverPostgres,
		Host:            host,
		Port:            port,
		Database:        database,
		Username:        username,
		Password:        password,
		SSLMode:         "prefer",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  30 * time.Second,
	}
}

// Validate checks the configuration for the selected driver
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("sqlite history store requires a path")
		}
	case DriverPostgres:
		if c.Host == "" {
			return fmt.Errorf("postgres history store requires a host")
		}
		if c.Database == "" {
			return fmt.Errorf("postgres history store requires a database name")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid postgres port %d", c.Port)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Driver)
	}
	if c.DefaultTimeout <= 0 {
		return fmt.Errorf("default timeout must be positive")
	}
	return nil
}

// connectionString builds the driver-specific DSN
func (c *Config) connectionString() string {
	switch c.Driver {
	case DriverSQLite:
		return c.Path
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:   c.Database,
		}
		if c.Username != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.Username, c.Password)
			} else {
				u.User = url.User(c.Username)
			}
		}
		q := u.Query()
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	return ""
}

// driverName maps the configured driver to its database/sql registration
func (c *Config) driverName() string {
	if c.Driver == DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}
