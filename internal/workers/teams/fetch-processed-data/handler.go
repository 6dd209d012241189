package fetchprocesseddata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	apperrors "github.com/ergutierz/SaturnClient/internal/common/errors"
	httpclient "github.com/ergutierz/SaturnClient/internal/common/http"
	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/common/metrics"
	"github.com/ergutierz/SaturnClient/internal/common/retry"
	"github.com/ergutierz/SaturnClient/internal/common/validation"
	"github.com/ergutierz/SaturnClient/internal/models"
)

const (
	TaskType          = "fetch-processed-data"
	ProcessedDataPath = "/Teams/GetProcessedData/"
)

// Handler polls the processed data for one correlation id until rows appear
// or the retry budget is spent.
type Handler struct {
	config    *Config
	client    *httpclient.Client
	validator *validation.Validator
	logger    logger.Logger
}

func NewHandler(config *Config, client *httpclient.Client, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}

	if config.ValidateSchema {
		v, err := validation.NewValidator(validation.ProcessedDataSchema)
		if err != nil {
			return nil, err
		}
		h.validator = v
	}

	return h, nil
}

// Execute returns the stats for input.CorrelationID. An empty result after
// all retries is not an error; a fault on the final attempt is.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	log := h.logger.With(map[string]interface{}{"correlationId": input.CorrelationID})

	stats, err := retry.Do(ctx,
		func(ctx context.Context) ([]models.TeamStat, error) {
			return h.fetch(ctx, input.CorrelationID)
		},
		notReady,
		retry.WithMaxRetries(h.config.MaxRetries),
		retry.WithDelay(h.config.Delay),
		retry.WithOperation(TaskType),
		retry.WithLogger(log),
	)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	if len(stats) == 0 {
		metrics.PollsTotal.WithLabelValues("empty").Inc()
		log.Warn("no processed data after retries", map[string]interface{}{
			"maxRetries": h.config.MaxRetries,
		})
	} else {
		metrics.PollsTotal.WithLabelValues("ready").Inc()
	}

	return &Output{CorrelationID: input.CorrelationID, Stats: stats}, nil
}

// notReady is the retry condition: the service answers with an empty array
// until the job has been processed.
func notReady(stats []models.TeamStat) bool {
	return len(stats) == 0
}

func (h *Handler) fetch(ctx context.Context, correlationID string) ([]models.TeamStat, error) {
	endpoint := h.config.BaseURL + ProcessedDataPath + url.PathEscape(correlationID)

	body, err := h.client.DoJSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if h.validator != nil {
		violations, err := h.validator.Validate(body)
		if err != nil {
			return nil, apperrors.NewSerializationFaultError("GetProcessedData response", err)
		}
		if len(violations) > 0 {
			return nil, apperrors.NewSchemaValidationError("GetProcessedData response", violations)
		}
	}

	var stats []models.TeamStat
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, apperrors.NewSerializationFaultError("GetProcessedData response", err)
	}
	if stats == nil {
		stats = []models.TeamStat{}
	}
	return stats, nil
}
