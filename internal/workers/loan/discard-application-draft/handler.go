// internal/workers/loan/discard-application-draft/handler.go
package discardapplicationdraft

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/drafts"
	"loan-origination/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "discard-application-draft"
)

// Handler removes the saved draft once the review process has taken over
// an application. A draft that is already gone is not an error.
type Handler struct {
	config       *Config
	store        workflow.DraftStore
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, store workflow.DraftStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := decode(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return err
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	return nil
}

func decode(variables string) (*Input, error) {
	res, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, apperrors.NewInvalidJobInputError(err.Error())
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidJobInputError(strings.Join(res.GetErrorMessages(), "; "))
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidJobInputError(err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	id := drafts.IDFor(input.ApplicationID)
	output := &Output{DraftID: id}

	_, err := h.store.Load(ctx, id)
	if errors.Is(err, drafts.ErrNotFound) {
		return output, nil
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("draft-store", err)
	}

	if err := h.store.Delete(ctx, id); err != nil {
		return nil, apperrors.NewExternalServiceError("draft-store", err)
	}
	output.DraftDeleted = true

	h.logger.Info("draft discarded", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"draftId":       id,
	})
	return output, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
