// internal/workers/teams/fetch-processed-data/config.go
package fetchprocesseddata

import "time"

type Config struct {
	BaseURL        string
	MaxRetries     int
	Delay          time.Duration
	ValidateSchema bool
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:5124",
		MaxRetries:     3,
		Delay:          5 * time.Second,
		ValidateSchema: true,
	}
}
