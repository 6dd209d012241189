package enqueueteam

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/ergutierz/SaturnClient/internal/common/errors"
	httpclient "github.com/ergutierz/SaturnClient/internal/common/http"
	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/common/metrics"
	"github.com/ergutierz/SaturnClient/internal/common/validation"
)

const (
	TaskType    = "enqueue-team"
	EnqueuePath = "/Teams/EnqueueTeam"
)

// Handler submits one team for server-side processing. It never retries:
// a failed submission is fatal to the run.
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
		v, err := validation.NewValidator(validation.EnqueueResponseSchema)
		if err != nil {
			return nil, err
		}
		h.validator = v
	}

	return h, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(h.config.FirstTeam, h.config.LastTeam); err != nil {
		return nil, err
	}

	body, err := h.client.DoJSON(ctx, http.MethodPost, h.config.BaseURL+EnqueuePath, input)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	if h.validator != nil {
		violations, err := h.validator.Validate(body)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
			return nil, apperrors.NewSerializationFaultError("EnqueueTeam response", err)
		}
		if len(violations) > 0 {
			metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
			return nil, apperrors.NewSchemaValidationError("EnqueueTeam response", violations)
		}
	}

	// A null body or a missing field both decode to an empty id.
	output := &Output{}
	if err := json.Unmarshal(body, output); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, apperrors.NewSerializationFaultError("EnqueueTeam response", err)
	}

	if output.CorrelationID == "" {
		metrics.SubmissionsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SubmissionsTotal.WithLabelValues("enqueued").Inc()
	}

	h.logger.Debug("team enqueued", map[string]interface{}{
		"teamNumber":    input.TeamNumber,
		"correlationId": output.CorrelationID,
	})

	return output, nil
}
