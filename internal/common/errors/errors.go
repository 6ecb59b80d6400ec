// Package errors provides the standardized error taxonomy shared by the
// application workflow and the BPMN job workers.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Application workflow errors
const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUploadRejected      ErrorCode = "UPLOAD_REJECTED"
	ErrCodeUploadFailed        ErrorCode = "UPLOAD_FAILED"
	ErrCodeSubmissionFailed    ErrorCode = "SUBMISSION_FAILED"
	ErrCodeDraftSaveFailed     ErrorCode = "DRAFT_SAVE_FAILED"
	ErrCodeDraftNotFound       ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeApplicationFrozen   ErrorCode = "APPLICATION_FROZEN"
	ErrCodeAlreadyInitialized  ErrorCode = "ALREADY_INITIALIZED"
	ErrCodeNotInitialized      ErrorCode = "APPLICATION_NOT_INITIALIZED"
	ErrCodeInvalidStep         ErrorCode = "INVALID_STEP"
	ErrCodeProfileLoadFailed   ErrorCode = "PROFILE_LOAD_FAILED"
	ErrCodeAffordabilityFailed ErrorCode = "AFFORDABILITY_FAILED"
)

// Job worker / infrastructure errors
const (
	ErrCodeInvalidJobInput          ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeStorageFailed            ErrorCode = "STORAGE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Standardizer is implemented by domain errors that map onto the taxonomy.
type Standardizer interface {
	Standard() *StandardError
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationFailedError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false)
}

func NewInvalidJobInputError(details string) *StandardError {
	return newError(ErrCodeInvalidJobInput, "Job input failed schema validation", details, false)
}

func NewSubmissionFailedError(err error) *StandardError {
	return newError(ErrCodeSubmissionFailed, "Application could not be submitted, please retry", err.Error(), true)
}

func NewDraftSaveFailedError(err error) *StandardError {
	return newError(ErrCodeDraftSaveFailed, "Draft could not be saved", err.Error(), true)
}

func NewProfileLoadFailedError(applicantID string, err error) *StandardError {
	std := newError(ErrCodeProfileLoadFailed, "Applicant profile could not be loaded", err.Error(), true)
	std.Metadata = map[string]interface{}{"applicantId": applicantID}
	return std
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Failed to connect to database", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, fmt.Sprintf("Query '%s' failed", queryType), err.Error(), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, fmt.Sprintf("Query '%s' timed out", queryType), "", true)
}

func NewStorageFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeStorageFailed, fmt.Sprintf("Object storage %s failed", operation), err.Error(), true)
}

func NewAffordabilityFailedError(err error) *StandardError {
	return newError(ErrCodeAffordabilityFailed, "Affordability could not be calculated", err.Error(), false)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by the
// loan review process boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:         "LOAN_VALIDATION_FAILED",
	ErrCodeInvalidJobInput:          "INVALID_JOB_INPUT",
	ErrCodeAffordabilityFailed:      "AFFORDABILITY_FAILED",
	ErrCodeUploadRejected:           "DOCUMENT_REJECTED",
	ErrCodeSubmissionFailed:         "SUBMISSION_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeStorageFailed:            "STORAGE_FAILED",
	ErrCodeProfileLoadFailed:        "PROFILE_LOAD_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeStorageFailed,
		ErrCodeSubmissionFailed,
		ErrCodeProfileLoadFailed,
		ErrCodeDraftSaveFailed:
		return 3

	case ErrCodeQueryTimeout, "TIMEOUT_ERROR", "EXTERNAL_SERVICE_ERROR":
		return 2

	default:
		return 0 // business errors are thrown, not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DRAFT"):
		return "DRAFT"
	case strings.Contains(codeStr, "UPLOAD") || strings.Contains(codeStr, "STORAGE"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "FROZEN") || strings.Contains(codeStr, "INITIALIZED") || strings.Contains(codeStr, "STEP"):
		return "STATE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
