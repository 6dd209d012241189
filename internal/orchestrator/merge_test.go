package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ergutierz/SaturnClient/internal/models"
)

func stat(name, number, score, date string) models.TeamStat {
	return models.TeamStat{
		TeamName:   name,
		TeamNumber: number,
		TeamScore:  score,
		GameDate:   models.MustGameDate(date),
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		input []models.TeamStat
		want  []models.TeamStat
	}{
		{
			name:  "nil input",
			input: nil,
			want:  []models.TeamStat{},
		},
		{
			name: "sorted by game date",
			input: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-03T00:00:00"),
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
				stat("Hawks", "2", "10", "2024-01-02T00:00:00"),
			},
			want: []models.TeamStat{
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
				stat("Hawks", "2", "10", "2024-01-02T00:00:00"),
				stat("Bears", "6", "24", "2024-01-03T00:00:00"),
			},
		},
		{
			name: "equal dates keep input order",
			input: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-01T00:00:00"),
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
			},
			want: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-01T00:00:00"),
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
			},
		},
		{
			name: "duplicate keeps first copy",
			input: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-02T00:00:00"),
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
				stat("Bears", "6", "99", "2024-01-02T00:00:00"),
			},
			want: []models.TeamStat{
				stat("Lions", "11", "17", "2024-01-01T00:00:00"),
				stat("Bears", "6", "24", "2024-01-02T00:00:00"),
			},
		},
		{
			name: "same instant in different notation is a duplicate",
			input: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-02T00:00:00Z"),
				stat("Bears", "6", "24", "2024-01-02T00:00:00"),
			},
			want: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-02T00:00:00Z"),
			},
		},
		{
			name: "different team number is not a duplicate",
			input: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-02T00:00:00"),
				stat("Bears", "7", "24", "2024-01-02T00:00:00"),
			},
			want: []models.TeamStat{
				stat("Bears", "6", "24", "2024-01-02T00:00:00"),
				stat("Bears", "7", "24", "2024-01-02T00:00:00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.input))
		})
	}
}

func TestMerge_Deterministic(t *testing.T) {
	input := []models.TeamStat{
		stat("Bears", "6", "24", "2024-01-02T00:00:00"),
		stat("Lions", "11", "17", "2024-01-01T00:00:00"),
		stat("Bears", "6", "24", "2024-01-02T00:00:00"),
		stat("Hawks", "2", "10", "2024-01-01T00:00:00"),
	}

	first := Merge(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Merge(input))
	}
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	input := []models.TeamStat{
		stat("Bears", "6", "24", "2024-01-02T00:00:00"),
		stat("Lions", "11", "17", "2024-01-01T00:00:00"),
	}
	before := append([]models.TeamStat(nil), input...)

	Merge(input)

	assert.Equal(t, before, input)
}
