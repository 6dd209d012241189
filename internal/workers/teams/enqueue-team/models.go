// internal/workers/teams/enqueue-team/models.go
package enqueueteam

import apperrors "github.com/ergutierz/SaturnClient/internal/common/errors"

// Input is sent verbatim as the EnqueueTeam request body.
type Input struct {
	TeamNumber int `json:"TeamNumber"`
}

func (in *Input) Validate(first, last int) error {
	if in.TeamNumber < first || in.TeamNumber > last {
		return apperrors.NewInvalidTeamNumberError(in.TeamNumber, first, last)
	}
	return nil
}

// Output is the decoded EnqueueTeam response. CorrelationID is empty when
// the service answered without one.
type Output struct {
	CorrelationID string `json:"correlationId"`
}
