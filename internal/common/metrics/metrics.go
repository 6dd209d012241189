// internal/common/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saturn_submissions_total",
			Help: "EnqueueTeam calls by outcome (enqueued, empty, failed)",
		},
		[]string{"outcome"},
	)

	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saturn_polls_total",
			Help: "GetProcessedData polls by outcome (ready, empty, failed)",
		},
		[]string{"outcome"},
	)

	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saturn_retry_attempts_total",
			Help: "Retries scheduled by the retry executor",
		},
		[]string{"operation", "reason"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "saturn_run_duration_seconds",
			Help:    "Duration of a full enqueue/poll/merge run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	RecordsPublished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "saturn_records_published",
			Help: "Team stats handed to the display by the last successful run",
		},
	)
)

// Push sends everything in the default registry to a Pushgateway.
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
