package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-origination/internal/common/logger"
	"loan-origination/internal/models"
	"loan-origination/internal/submission"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
)

// ProcessSubmitter hands a submitted application to the review process by
// starting a process instance and waiting for its receipt variables.
type ProcessSubmitter struct {
	client    *Client
	processID string
	timeout   time.Duration
	logger    logger.Logger
}

func NewProcessSubmitter(client *Client, processID string, timeout time.Duration, log logger.Logger) *ProcessSubmitter {
	return &ProcessSubmitter{
		client:    client,
		processID: processID,
		timeout:   timeout,
		logger:    log.WithFields(map[string]interface{}{"processId": processID}),
	}
}

// receiptVariables are the process variables the review process sets
// before its first wait state.
type receiptVariables struct {
	LoanID            string `json:"loanId"`
	AssignedOfficerID string `json:"assignedOfficerId"`
}

func (s *ProcessSubmitter) Submit(ctx context.Context, app models.LoanApplication) (*models.SubmissionReceipt, error) {
	payload := submission.Build(app)
	if err := submission.Validate(payload); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		cmd, err := s.client.Zeebe().NewCreateInstanceCommand().
			BPMNProcessId(s.processID).
			LatestVersion().
			VariablesFromObject(payload)
		if err != nil {
			return nil, err
		}
		return cmd.WithResult().
			FetchVariables("loanId", "assignedOfficerId").
			Send(ctx)
	}, "create-loan-review-instance")
	if err != nil {
		s.logger.Error("review process start failed", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"error":         err.Error(),
		})
		return nil, err
	}

	resp, ok := result.(*pb.CreateProcessInstanceWithResultResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected create-instance response %T", result)
	}

	receipt, err := receiptFromResult(resp.ProcessInstanceKey, resp.Variables)
	if err != nil {
		return nil, err
	}

	s.logger.Info("application handed to review process", map[string]interface{}{
		"applicationId":      app.ApplicationID,
		"processInstanceKey": resp.ProcessInstanceKey,
		"loanId":             receipt.LoanID,
	})
	return receipt, nil
}

// receiptFromResult reads the receipt variables; a process that does not
// assign a loan id yet is identified by its instance key.
func receiptFromResult(instanceKey int64, variables string) (*models.SubmissionReceipt, error) {
	var vars receiptVariables
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &vars); err != nil {
			return nil, fmt.Errorf("decode review process variables: %w", err)
		}
	}
	if vars.LoanID == "" {
		vars.LoanID = fmt.Sprintf("LN-%d", instanceKey)
	}
	return &models.SubmissionReceipt{
		LoanID:            vars.LoanID,
		AssignedOfficerID: vars.AssignedOfficerID,
	}, nil
}
