// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("update basic details: %w", &StandardError{Code: ErrCodeApplicationFrozen, Message: "frozen"})

	assert.True(t, stderrors.Is(wrapped, ErrApplicationFrozen))
	assert.False(t, stderrors.Is(wrapped, ErrAlreadyInitialized))
	assert.False(t, stderrors.Is(stderrors.New("plain"), ErrApplicationFrozen))
}

func TestValidationFailure(t *testing.T) {
	vf := &ValidationFailure{
		Step:     5,
		StepName: "Declarations",
		Violations: []Violation{
			{Field: "termsAccepted", Label: "Terms & Conditions", Code: CodeNotAccepted, Message: "Terms & Conditions must be accepted"},
			{Field: "privacyPolicyAccepted", Label: "Privacy Policy", Code: CodeNotAccepted, Message: "Privacy Policy must be accepted"},
		},
	}

	assert.Equal(t, "Declarations is incomplete: Terms & Conditions must be accepted; Privacy Policy must be accepted", vf.Error())
	assert.Equal(t, []string{"Terms & Conditions", "Privacy Policy"}, vf.Labels())

	std := Normalize(fmt.Errorf("next step: %w", vf))
	assert.Equal(t, ErrCodeValidationFailed, std.Code)
	assert.False(t, std.Retryable)
	assert.Equal(t, 5, std.Metadata["step"])
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"standard error passes through", NewQueryTimeoutError("profile"), ErrCodeQueryTimeout, true},
		{"rejected upload", &RejectedUpload{FileName: "a.gif", DocumentType: "PAN", Reason: "format not accepted"}, ErrCodeUploadRejected, false},
		{"submission failure", &SubmissionFailure{ApplicationID: "app-1", Cause: stderrors.New("gateway unavailable")}, ErrCodeSubmissionFailed, true},
		{"draft save failure", &DraftSaveFailure{Cause: stderrors.New("redis down")}, ErrCodeDraftSaveFailed, true},
		{"unknown error", stderrors.New("boom"), "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := Normalize(tt.err)
			require.NotNil(t, std)
			assert.Equal(t, tt.code, std.Code)
			assert.Equal(t, tt.retryable, std.Retryable)
			assert.NotEmpty(t, std.Message)
		})
	}
}

func TestSubmissionFailure_Unwrap(t *testing.T) {
	cause := stderrors.New("gateway unavailable")
	err := &SubmissionFailure{ApplicationID: "app-1", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "retry submission")
}

func TestConvertToBPMNError(t *testing.T) {
	std := NewValidationFailedError("Loan amount is required", "Basic Details")
	bpmn := ConvertToBPMNError(std)
	assert.Equal(t, "LOAN_VALIDATION_FAILED", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "VALIDATION_FAILED", vars["originalErrorCode"])
	assert.Equal(t, "Loan amount is required", vars["errorMessage"])

	retryable := ConvertToBPMNError(NewDatabaseConnectionFailedError(stderrors.New("refused")))
	assert.Equal(t, 3, retryable.Retries)
	assert.True(t, retryable.Retryable)

	unmapped := ConvertToBPMNError(&StandardError{Code: "SOMETHING_ELSE", Retryable: true})
	assert.Equal(t, "SOMETHING_ELSE", unmapped.Code)
	assert.Equal(t, 0, unmapped.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DRAFT", GetErrorCategory(ErrCodeDraftSaveFailed))
	assert.Equal(t, "DOCUMENT", GetErrorCategory(ErrCodeUploadRejected))
	assert.Equal(t, "SUBMISSION", GetErrorCategory(ErrCodeSubmissionFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "STATE", GetErrorCategory(ErrCodeApplicationFrozen))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("BUSINESS_RULE_VIOLATION"))
	assert.True(t, IsRetryableErrorCode(ErrCodeStorageFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeUploadRejected))
}
