// internal/workers/teams/fetch-processed-data/models.go
package fetchprocesseddata

import (
	"fmt"

	"github.com/ergutierz/SaturnClient/internal/models"
)

type Input struct {
	CorrelationID string `json:"correlationId"`
}

func (in *Input) Validate() error {
	if in.CorrelationID == "" {
		return fmt.Errorf("correlationId is required")
	}
	return nil
}

// Output holds whatever the last poll returned; Stats may be empty when the
// service never finished processing within the retry budget.
type Output struct {
	CorrelationID string            `json:"correlationId"`
	Stats         []models.TeamStat `json:"stats"`
}
