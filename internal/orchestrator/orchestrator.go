// Package orchestrator drives a full run: enqueue every team, poll each
// correlation id, merge the rows and hand them to the display.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/ergutierz/SaturnClient/internal/common/errors"
	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/common/metrics"
	"github.com/ergutierz/SaturnClient/internal/common/observability"
	"github.com/ergutierz/SaturnClient/internal/models"
	enqueueteam "github.com/ergutierz/SaturnClient/internal/workers/teams/enqueue-team"
	fetchprocesseddata "github.com/ergutierz/SaturnClient/internal/workers/teams/fetch-processed-data"
)

// Display is the user-facing collaborator.
type Display interface {
	SetBusy(busy bool)
	ShowStats(ctx context.Context, runID string, stats []models.TeamStat) error
	ShowError(message string)
}

type Submitter interface {
	Execute(ctx context.Context, input *enqueueteam.Input) (*enqueueteam.Output, error)
}

type Poller interface {
	Execute(ctx context.Context, input *fetchprocesseddata.Input) (*fetchprocesseddata.Output, error)
}

type Config struct {
	FirstTeam int
	LastTeam  int
	// Concurrency above 1 fans submissions and polls out over that many
	// goroutines. Output is identical to the sequential run.
	Concurrency int
	// Timeout bounds a whole run; zero means no deadline.
	Timeout time.Duration
}

// RunResult describes a successful run.
type RunResult struct {
	RunID        string
	Correlations []models.Correlation
	Stats        []models.TeamStat
	Duration     time.Duration
}

type Orchestrator struct {
	config       *Config
	submitter    Submitter
	poller       Poller
	display      Display
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
}

type Option func(*Orchestrator)

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

func New(config *Config, submitter Submitter, poller Poller, display Display, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:       config,
		submitter:    submitter,
		poller:       poller,
		display:      display,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.config.Concurrency < 1 {
		o.config.Concurrency = 1
	}
	return o
}

// Run executes one full enqueue, poll, merge and publish cycle. On failure
// nothing is published: the display receives the error message instead and
// the error is returned.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	log := o.logger.With(map[string]interface{}{"runId": runID})

	o.display.SetBusy(true)
	defer o.display.SetBusy(false)

	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	log.Info("run started", map[string]interface{}{
		"firstTeam":   o.config.FirstTeam,
		"lastTeam":    o.config.LastTeam,
		"concurrency": o.config.Concurrency,
	})

	result, err := o.execute(ctx, runID, log)
	if err == nil {
		if perr := o.display.ShowStats(ctx, runID, result.Stats); perr != nil {
			err = apperrors.NewPublishFailedError("display", perr)
		}
	}

	duration := time.Since(start)
	if err != nil {
		// Only the run deadline counts; a per-request timeout also matches
		// DeadlineExceeded but leaves the run context alive.
		if o.config.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = apperrors.NewRunTimeoutError(err)
		}
		o.display.ShowError(o.errorHandler.HandleRunError(runID, err))
		o.record(ctx, "failure", duration, 0)
		return nil, err
	}

	result.Duration = duration
	metrics.RecordsPublished.Set(float64(len(result.Stats)))
	o.record(ctx, "success", duration, len(result.Stats))
	log.Info("run completed", map[string]interface{}{
		"correlations": len(result.Correlations),
		"published":    len(result.Stats),
		"durationMs":   duration.Milliseconds(),
	})

	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, runID string, log logger.Logger) (*RunResult, error) {
	correlations, err := o.submitAll(ctx, log)
	if err != nil {
		return nil, err
	}
	log.Info("teams enqueued", map[string]interface{}{"correlations": len(correlations)})

	stats, err := o.pollAll(ctx, correlations)
	if err != nil {
		return nil, err
	}

	merged := Merge(stats)
	log.Info("processed data merged", map[string]interface{}{
		"fetched": len(stats),
		"unique":  len(merged),
	})

	return &RunResult{
		RunID:        runID,
		Correlations: correlations,
		Stats:        merged,
	}, nil
}

// submitAll enqueues every team in order. Teams whose submission yields an
// empty correlation id are left out of the map.
func (o *Orchestrator) submitAll(ctx context.Context, log logger.Logger) ([]models.Correlation, error) {
	teams := make([]int, 0, o.config.LastTeam-o.config.FirstTeam+1)
	for n := o.config.FirstTeam; n <= o.config.LastTeam; n++ {
		teams = append(teams, n)
	}

	ids := make([]string, len(teams))
	submit := func(ctx context.Context, i int) error {
		out, err := o.submitter.Execute(ctx, &enqueueteam.Input{TeamNumber: teams[i]})
		if err != nil {
			return fmt.Errorf("enqueue team %d: %w", teams[i], err)
		}
		ids[i] = out.CorrelationID
		return nil
	}

	if err := o.forEach(ctx, len(teams), submit); err != nil {
		return nil, err
	}

	correlations := make([]models.Correlation, 0, len(teams))
	for i, id := range ids {
		if id == "" {
			// The service accepted the team but gave no id to poll with.
			log.Warn("empty correlation id, team skipped", map[string]interface{}{
				"teamNumber": teams[i],
			})
			continue
		}
		correlations = append(correlations, models.Correlation{TeamNumber: teams[i], CorrelationID: id})
	}
	return correlations, nil
}

// pollAll fetches every correlation and concatenates the rows in map order.
func (o *Orchestrator) pollAll(ctx context.Context, correlations []models.Correlation) ([]models.TeamStat, error) {
	batches := make([][]models.TeamStat, len(correlations))
	poll := func(ctx context.Context, i int) error {
		c := correlations[i]
		out, err := o.poller.Execute(ctx, &fetchprocesseddata.Input{CorrelationID: c.CorrelationID})
		if err != nil {
			return fmt.Errorf("fetch processed data for team %d (%s): %w", c.TeamNumber, c.CorrelationID, err)
		}
		batches[i] = out.Stats
		return nil
	}

	if err := o.forEach(ctx, len(correlations), poll); err != nil {
		return nil, err
	}

	var stats []models.TeamStat
	for _, b := range batches {
		stats = append(stats, b...)
	}
	return stats, nil
}

// forEach calls fn for 0..n-1 and returns the first error. Sequentially it
// stops at that error; concurrently it stops starting new calls and waits
// for the running ones before returning.
func (o *Orchestrator) forEach(ctx context.Context, n int, fn func(context.Context, int) error) error {
	if o.config.Concurrency <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Concurrency)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (o *Orchestrator) record(ctx context.Context, status string, duration time.Duration, published int) {
	metrics.RunDuration.WithLabelValues(status).Observe(duration.Seconds())
	if o.obs != nil {
		o.obs.RecordRun(ctx, status, duration, published)
	}
}
