// Package retry runs an operation until it succeeds with a satisfactory
// result or a fixed retry budget runs out.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/common/metrics"
)

const (
	DefaultMaxRetries = 3
	DefaultDelay      = 2 * time.Second
)

// Options configure Do.
type Options struct {
	MaxRetries int
	Delay      time.Duration
	Operation  string
	Logger     logger.Logger
}

type Option func(*Options)

func WithMaxRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

func WithDelay(d time.Duration) Option {
	return func(o *Options) { o.Delay = d }
}

// WithOperation names the operation in logs and metrics.
func WithOperation(name string) Option {
	return func(o *Options) { o.Operation = name }
}

func WithLogger(l logger.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaults() Options {
	return Options{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultDelay,
		Operation:  "operation",
		Logger:     logger.NewNoOpLogger(),
	}
}

// Do calls op until it returns a result that isUnsatisfactory rejects, or
// until MaxRetries retries have been spent, whichever comes first. At most
// MaxRetries+1 attempts are made, with Delay between consecutive attempts.
//
// When the budget runs out on an unsatisfactory result, that result is
// returned with a nil error. When it runs out on an error, the error is
// returned. A nil isUnsatisfactory accepts every result.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), isUnsatisfactory func(T) bool, opts ...Option) (T, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}

	log := o.Logger.With(map[string]interface{}{"operation": o.Operation})

	retries := 0
	for {
		result, err := op(ctx)
		if err == nil {
			if isUnsatisfactory == nil || !isUnsatisfactory(result) || retries >= o.MaxRetries {
				log.Info("Operation successful or max retries reached", map[string]interface{}{
					"retries": retries,
				})
				return result, nil
			}
			log.Warn("Condition not met for operation, retrying", map[string]interface{}{
				"attempt":    retries + 1,
				"maxRetries": o.MaxRetries,
			})
			metrics.RetryAttemptsTotal.WithLabelValues(o.Operation, "unsatisfactory").Inc()
		} else {
			if retries >= o.MaxRetries {
				log.WithError(err).Error("Operation failed after max retries", map[string]interface{}{
					"retries": retries,
				})
				var zero T
				return zero, err
			}
			log.WithError(err).Warn("Exception occurred during operation, retrying", map[string]interface{}{
				"attempt":    retries + 1,
				"maxRetries": o.MaxRetries,
			})
			metrics.RetryAttemptsTotal.WithLabelValues(o.Operation, "fault").Inc()
		}

		retries++
		if werr := wait(ctx, o.Delay); werr != nil {
			var zero T
			return zero, fmt.Errorf("%s: retry aborted after %d attempts: %w", o.Operation, retries, werr)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
