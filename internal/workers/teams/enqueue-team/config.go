// internal/workers/teams/enqueue-team/config.go
package enqueueteam

import "github.com/ergutierz/SaturnClient/internal/models"

type Config struct {
	BaseURL        string
	FirstTeam      int
	LastTeam       int
	ValidateSchema bool
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:5124",
		FirstTeam:      models.FirstTeamNumber,
		LastTeam:       models.LastTeamNumber,
		ValidateSchema: true,
	}
}
