package display

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/models"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Postgres appends every published result set to a history table, one row
// per stat, keyed by run id and position. See configs/schema.sql.
type Postgres struct {
	db          *sql.DB
	table       string
	insertQuery string
	logger      logger.Logger
}

func NewPostgres(db *sql.DB, table string, log logger.Logger) (*Postgres, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Postgres{
		db:    db,
		table: table,
		insertQuery: fmt.Sprintf(
			`INSERT INTO %s (run_id, position, team_name, team_number, team_score, game_date) VALUES ($1, $2, $3, $4, $5, $6)`,
			table,
		),
		logger: log.With(map[string]interface{}{"display": "postgres"}),
	}, nil
}

// SetBusy is a no-op; the table only records finished runs.
func (p *Postgres) SetBusy(bool) {}

// ShowStats writes all rows of a run in one transaction.
func (p *Postgres) ShowStats(ctx context.Context, runID string, stats []models.TeamStat) error {
	if len(stats) == 0 {
		p.logger.Debug("no rows to store", map[string]interface{}{"runId": runID})
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, s := range stats {
		if _, err := tx.ExecContext(ctx, p.insertQuery,
			runID, i, s.TeamName, s.TeamNumber, s.TeamScore, s.GameDate.Time,
		); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, p.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	p.logger.Info("team stats stored", map[string]interface{}{
		"runId": runID,
		"table": p.table,
		"rows":  len(stats),
	})
	return nil
}

// ShowError only logs; failed runs leave no rows behind.
func (p *Postgres) ShowError(message string) {
	p.logger.Debug("run failed, nothing stored", map[string]interface{}{"message": message})
}
