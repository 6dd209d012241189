// internal/models/team_stat.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Team numbers accepted by the processing service.
const (
	FirstTeamNumber = 1
	LastTeamNumber  = 32
)

// TeamStat is one processed row returned for a correlation id.
type TeamStat struct {
	TeamName   string   `json:"teamName"`
	TeamNumber string   `json:"teamNumber"`
	TeamScore  string   `json:"teamScore"`
	GameDate   GameDate `json:"gameDate"`
}

// Key identifies a stat for deduplication.
func (s TeamStat) Key() StatKey {
	return StatKey{
		TeamName:   s.TeamName,
		TeamNumber: s.TeamNumber,
		GameDate:   s.GameDate.UnixNano(),
	}
}

// StatKey is comparable so it can index a map.
type StatKey struct {
	TeamName   string
	TeamNumber string
	GameDate   int64
}

// GameDate wraps time.Time to accept the zone-less timestamps the service emits.
type GameDate struct {
	time.Time
}

// Layouts tried in order. Zone-less values are read as UTC.
var gameDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseGameDate parses an ISO-8601 timestamp with or without zone.
func ParseGameDate(s string) (GameDate, error) {
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return GameDate{Time: t}, nil
		}
	}
	return GameDate{}, fmt.Errorf("invalid gameDate %q", s)
}

// MustGameDate is ParseGameDate for literals; it panics on bad input.
func MustGameDate(s string) GameDate {
	d, err := ParseGameDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *GameDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = GameDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("gameDate: %w", err)
	}
	parsed, err := ParseGameDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d GameDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

// Correlation pairs a submitted team with the id the service returned for it.
type Correlation struct {
	TeamNumber    int    `json:"teamNumber"`
	CorrelationID string `json:"correlationId"`
}
