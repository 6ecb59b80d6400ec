// internal/workers/loan/load-applicant-profile/handler.go
package loadapplicantprofile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/models"
	"loan-origination/internal/profile"
	"loan-origination/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "load-applicant-profile"
)

type Handler struct {
	config       *Config
	profiles     workflow.ProfileLoader
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, profiles workflow.ProfileLoader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
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

	var input Input
	res, err := inputSchema.ValidateJSON(job.Variables)
	switch {
	case err != nil:
		err = apperrors.NewInvalidJobInputError(err.Error())
	case !res.Valid:
		err = apperrors.NewInvalidJobInputError(strings.Join(res.GetErrorMessages(), "; "))
	default:
		if uerr := json.Unmarshal([]byte(job.Variables), &input); uerr != nil {
			err = apperrors.NewInvalidJobInputError(uerr.Error())
		}
	}
	if err != nil {
		h.failJob(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, &input)
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	details := models.ApplicantDetails{}
	if input.ApplicantDetails != nil {
		details = *input.ApplicantDetails
	}

	p, err := h.profiles.LoadProfile(ctx, input.ApplicantID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		h.logger.Info("no stored profile", map[string]interface{}{"applicantId": input.ApplicantID})
		return &Output{ApplicantDetails: input.ApplicantDetails}, nil
	}
	if err != nil {
		return nil, err
	}

	workflow.Prefill(&details, p)
	details.SyncPermanentAddress()
	return &Output{ProfileFound: true, ApplicantDetails: &details}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
