// internal/workers/loan/calculate-affordability/handler.go
package calculateaffordability

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"loan-origination/internal/affordability"
	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const (
	TaskType = "calculate-affordability"
)

const (
	reasonIncomeRequired = "INCOME_REQUIRED"
	reasonDTIExceeded    = "DTI_LIMIT_EXCEEDED"
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	rate := h.config.Rates.Rate(input.LoanType)
	if input.AnnualInterestRate != nil {
		rate = *input.AnnualInterestRate
	}

	res, err := affordability.Compute(affordability.Input{
		Principal:           input.LoanAmount,
		AnnualRatePct:       rate,
		TenureMonths:        input.TenureMonths,
		MonthlyIncome:       input.MonthlyIncome,
		ExistingObligations: input.ExistingObligations,
	})
	if err != nil && !errors.Is(err, affordability.ErrIncomeRequired) {
		return nil, apperrors.NewAffordabilityFailedError(err)
	}

	output := &Output{
		AnnualInterestRate: res.AnnualRatePct,
		EMI:                res.EMI,
		TotalInterest:      res.TotalInterest,
		TotalAmount:        res.TotalAmount,
		MaxDTI:             h.config.MaxDTI,
	}
	if input.IncludeSchedule {
		output.Schedule = res.Schedule
	}

	switch {
	case err != nil:
		output.IneligibleReason = reasonIncomeRequired
	case res.DTI.GreaterThan(decimal.NewFromFloat(h.config.MaxDTI)):
		output.DTI = &res.DTI
		output.AffordabilityStatus = res.Classification
		output.IneligibleReason = reasonDTIExceeded
	default:
		output.DTI = &res.DTI
		output.AffordabilityStatus = res.Classification
		output.Eligible = true
	}

	h.logger.Info("affordability calculated", map[string]interface{}{
		"loanType": input.LoanType,
		"emi":      output.EMI.String(),
		"eligible": output.Eligible,
		"status":   output.AffordabilityStatus,
	})
	return output, nil
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
