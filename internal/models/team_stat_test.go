package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05+02:00", time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05.1234567", time.Date(2024, 1, 2, 3, 4, 5, 123456700, time.UTC)},
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGameDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}
}

func TestParseGameDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-01", "01/02/2024"} {
		_, err := ParseGameDate(input)
		assert.Error(t, err, input)
	}
}

func TestTeamStat_JSON(t *testing.T) {
	var stats []TeamStat
	err := json.Unmarshal([]byte(`[
		{"teamName":"Bears","teamNumber":"6","teamScore":"24","gameDate":"2024-01-02T00:00:00"},
		{"teamName":"Lions","teamNumber":"11","teamScore":null,"gameDate":null}
	]`), &stats)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Bears", stats[0].TeamName)
	assert.True(t, stats[0].GameDate.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", stats[1].TeamScore)
	assert.True(t, stats[1].GameDate.IsZero())

	out, err := json.Marshal(stats[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"teamName":"Bears","teamNumber":"6","teamScore":"24","gameDate":"2024-01-02T00:00:00Z"}`, string(out))
}

func TestTeamStat_BadDate(t *testing.T) {
	var s TeamStat
	err := json.Unmarshal([]byte(`{"teamName":"Bears","gameDate":"not a date"}`), &s)
	assert.Error(t, err)
}

func TestTeamStat_Key(t *testing.T) {
	a := TeamStat{TeamName: "Bears", TeamNumber: "6", TeamScore: "24", GameDate: MustGameDate("2024-01-02T00:00:00")}
	b := TeamStat{TeamName: "Bears", TeamNumber: "6", TeamScore: "99", GameDate: MustGameDate("2024-01-02T00:00:00Z")}
	c := TeamStat{TeamName: "Bears", TeamNumber: "6", TeamScore: "24", GameDate: MustGameDate("2024-01-03")}

	assert.Equal(t, a.Key(), b.Key(), "score is not part of the key")
	assert.NotEqual(t, a.Key(), c.Key())
}
