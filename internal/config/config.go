package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// DatabaseConfig contains all persistence-related configuration settings.
// Backend selects the store implementation: "postgres" uses URL and the
// pool settings; "memory" runs without a database (tests, local smoke runs).
type DatabaseConfig struct {
	Backend         string        `mapstructure:"backend"           validate:"required,oneof=postgres memory"`
	URL             string        `mapstructure:"url"               validate:"required_if=Backend postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"     validate:"required"`
}
