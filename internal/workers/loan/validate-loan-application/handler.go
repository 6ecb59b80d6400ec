// internal/workers/loan/validate-loan-application/handler.go
package validateloanapplication

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/models"
	"loan-origination/internal/submission"
	"loan-origination/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-loan-application"
)

// Handler re-runs the step validators server side before the review
// process accepts an application.
type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
		now:          time.Now,
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

	return h.completeJob(ctx, client, job, output, start)
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

// execute checks steps in order and fails on the first step with
// violations, then checks the mapped payload against the backend contract.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	app := input.Application
	now := h.now()

	for step := models.StepBasicDetails; step < models.StepReview; step++ {
		v := workflow.Violations(app, step, h.config.Rules, now)
		if len(v) == 0 {
			continue
		}
		h.logger.Warn("application failed validation", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"step":          step,
			"violations":    len(v),
		})
		return nil, &apperrors.ValidationFailure{
			Step:       step,
			StepName:   models.StepName(step),
			Violations: v,
		}
	}

	payload := submission.Build(app)
	if err := submission.Validate(payload); err != nil {
		return nil, apperrors.NewValidationFailedError("Submission payload rejected", err.Error())
	}

	h.logger.Info("application valid", map[string]interface{}{
		"applicationId": app.ApplicationID,
		"loanType":      app.BasicDetails.LoanType,
	})
	return &Output{
		Valid:         true,
		ApplicationID: app.ApplicationID,
		StepsChecked:  models.StepReview - 1,
		Payload:       payload,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) error {
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

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
