package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Match log backends
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects where match records are appended.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	// URL is a postgres connection string or a SQLite file path.
	URL string `mapstructure:"url" validate:"required_unless=Driver memory"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// EngineConfig tunes the realm calculation and its scheduling.
type EngineConfig struct {
	RecalculationInterval   time.Duration `mapstructure:"recalculation_interval" validate:"gt=0"`
	MovementThresholdMeters float64       `mapstructure:"movement_threshold_meters" validate:"gt=0"`
	IncludeCelestial        bool          `mapstructure:"include_celestial"`
	TimeZone                string        `mapstructure:"time_zone" validate:"required"`
	CoordinatePrecision     int           `mapstructure:"coordinate_precision" validate:"gte=0,lte=8"`
	QueueSize               int           `mapstructure:"queue_size" validate:"gt=0"`
	// ReferenceTablePath points at a YAML reference table; empty uses the built-in one.
	ReferenceTablePath string `mapstructure:"reference_table_path"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string  `mapstructure:"service_name" validate:"required"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}
