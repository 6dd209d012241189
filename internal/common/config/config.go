// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Teams    TeamsConfig    `mapstructure:"teams"`
	Poll     PollConfig     `mapstructure:"poll"`
	Run      RunConfig      `mapstructure:"run"`
	Display  DisplayConfig  `mapstructure:"display"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points at the team processing service.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_ms"` // milliseconds, per request
}

// TeamsConfig is the inclusive range of team numbers enqueued per run.
type TeamsConfig struct {
	First int `mapstructure:"first"`
	Last  int `mapstructure:"last"`
}

// PollConfig controls how GetProcessedData is retried.
type PollConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
	Delay      int `mapstructure:"delay_ms"` // milliseconds
}

type RunConfig struct {
	Timeout        int  `mapstructure:"timeout_ms"` // milliseconds, 0 disables the deadline
	Concurrency    int  `mapstructure:"concurrency"`
	ValidateSchema bool `mapstructure:"validate_schema"`
}

type DisplayConfig struct {
	Console  ConsoleDisplayConfig  `mapstructure:"console"`
	Redis    RedisDisplayConfig    `mapstructure:"redis"`
	Postgres PostgresDisplayConfig `mapstructure:"postgres"`
}

type ConsoleDisplayConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Spinner bool `mapstructure:"spinner"`
}

type RedisDisplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	KeyPrefix string `mapstructure:"key_prefix"`
	Channel   string `mapstructure:"channel"`
	TTL       int    `mapstructure:"ttl_ms"` // milliseconds, 0 keeps keys forever
}

type PostgresDisplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Table   string `mapstructure:"table"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls where run metrics are pushed once a run ends.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}
