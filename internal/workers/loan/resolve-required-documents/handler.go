// internal/workers/loan/resolve-required-documents/handler.go
package resolverequireddocuments

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/documents"
	"loan-origination/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-required-documents"
)

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	res, err := inputSchema.ValidateJSON(job.Variables)
	if err == nil && !res.Valid {
		err = apperrors.NewInvalidJobInputError(strings.Join(res.GetErrorMessages(), "; "))
	}
	var input Input
	if err == nil {
		err = json.Unmarshal([]byte(job.Variables), &input)
	}
	if err != nil {
		h.failJob(ctx, client, job, err)
		return err
	}

	output := h.execute(&input)

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

// execute resolves the policy for the loan type. A rejected upload counts
// as missing.
func (h *Handler) execute(input *Input) *Output {
	var usable []models.DocumentUpload
	output := &Output{
		RequiredDocuments: documents.RequiredDocuments(input.LoanType),
		MissingDocuments:  []models.DocumentType{},
		RejectedDocuments: []models.DocumentType{},
	}

	for _, d := range input.UploadedDocuments {
		if d.Status == models.DocumentRejected {
			output.RejectedDocuments = append(output.RejectedDocuments, d.DocumentType)
			continue
		}
		usable = append(usable, d)
	}
	for _, req := range documents.MissingRequired(input.LoanType, usable) {
		output.MissingDocuments = append(output.MissingDocuments, req.DocumentType)
	}
	output.DocumentsComplete = len(output.MissingDocuments) == 0

	h.logger.Info("documents resolved", map[string]interface{}{
		"loanType": input.LoanType,
		"required": len(output.RequiredDocuments),
		"missing":  len(output.MissingDocuments),
	})
	return output
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(input *Input) *Output {
	return h.execute(input)
}
