// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ergutierz/SaturnClient/internal/models"
)

// EnvPrefix namespaces environment overrides, e.g. SATURN_API_BASE_URL.
const EnvPrefix = "SATURN"

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the YAML file omits it. Zero is a meaningful value for some of these
// (poll.max_retries, run.timeout_ms), so they cannot be defaulted later.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "saturn-client")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("api.base_url", "http://localhost:5124")
	v.SetDefault("api.timeout_ms", 30000)

	v.SetDefault("teams.first", models.FirstTeamNumber)
	v.SetDefault("teams.last", models.LastTeamNumber)

	v.SetDefault("poll.max_retries", 3)
	v.SetDefault("poll.delay_ms", 5000)

	v.SetDefault("run.timeout_ms", 0)
	v.SetDefault("run.concurrency", 1)
	v.SetDefault("run.validate_schema", true)

	v.SetDefault("display.console.enabled", true)
	v.SetDefault("display.console.spinner", true)
	v.SetDefault("display.redis.enabled", false)
	v.SetDefault("display.redis.key_prefix", "saturn:teamstats")
	v.SetDefault("display.redis.channel", "saturn:teamstats:events")
	v.SetDefault("display.redis.ttl_ms", 0)
	v.SetDefault("display.postgres.enabled", false)
	v.SetDefault("display.postgres.table", "team_stats")

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.max_connections", 5)
	v.SetDefault("database.postgres.max_idle", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "saturn_client")
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills derived values that have no sensible zero.
func applyDefaults(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.Run.Concurrency < 1 {
		cfg.Run.Concurrency = 1
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 5
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "saturn_client"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout_ms must not be negative")
	}

	if cfg.Teams.First < models.FirstTeamNumber || cfg.Teams.Last > models.LastTeamNumber || cfg.Teams.First > cfg.Teams.Last {
		return fmt.Errorf("teams range %d..%d must lie within %d..%d",
			cfg.Teams.First, cfg.Teams.Last, models.FirstTeamNumber, models.LastTeamNumber)
	}

	if cfg.Poll.MaxRetries < 0 {
		return fmt.Errorf("poll.max_retries must not be negative")
	}
	if cfg.Poll.Delay < 0 {
		return fmt.Errorf("poll.delay_ms must not be negative")
	}
	if cfg.Run.Timeout < 0 {
		return fmt.Errorf("run.timeout_ms must not be negative")
	}

	if cfg.Display.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when display.redis is enabled")
	}
	if cfg.Display.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when display.postgres is enabled")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when display.postgres is enabled")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when display.postgres is enabled")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
