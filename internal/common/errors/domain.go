// internal/common/errors/domain.go
package errors

import (
	"fmt"
	"strings"
)

// Sentinels for state errors. Any StandardError with the same code matches
// them under errors.Is.
var (
	ErrApplicationFrozen  = &StandardError{Code: ErrCodeApplicationFrozen, Message: "Application has been submitted and can no longer be changed"}
	ErrAlreadyInitialized = &StandardError{Code: ErrCodeAlreadyInitialized, Message: "An application is already in progress; reset or cancel it first"}
	ErrNotInitialized     = &StandardError{Code: ErrCodeNotInitialized, Message: "No application is in progress"}
	ErrInvalidStep        = &StandardError{Code: ErrCodeInvalidStep, Message: "Step is outside the application flow"}
	ErrDraftNotFound      = &StandardError{Code: ErrCodeDraftNotFound, Message: "Draft not found"}
)

// Is matches on the error code so wrapped or re-created errors compare equal
// to the sentinels above.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Violation is one broken rule on a step, with a label a person can read.
type Violation struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Violation codes
const (
	CodeRequired    = "REQUIRED"
	CodeInvalid     = "INVALID_FORMAT"
	CodeOutOfRange  = "OUT_OF_RANGE"
	CodeNotAccepted = "NOT_ACCEPTED"
	CodeMissingDoc  = "MISSING_DOCUMENT"
	CodeIneligible  = "INELIGIBLE"
)

// ValidationFailure lists every violation that blocked a step transition.
type ValidationFailure struct {
	Step       int         `json:"step"`
	StepName   string      `json:"stepName"`
	Violations []Violation `json:"violations"`
}

func (e *ValidationFailure) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%s is incomplete: %s", e.StepName, strings.Join(msgs, "; "))
}

// Labels returns the human labels of the violated fields in order.
func (e *ValidationFailure) Labels() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Label
	}
	return out
}

func (e *ValidationFailure) Standard() *StandardError {
	std := NewValidationFailedError(e.Error(), e.StepName)
	std.Metadata = map[string]interface{}{
		"step":       e.Step,
		"violations": e.Violations,
	}
	return std
}

// RejectedUpload is returned before any transfer when a file fails the
// document requirement checks.
type RejectedUpload struct {
	FileName     string `json:"fileName"`
	DocumentType string `json:"documentType"`
	Reason       string `json:"reason"`
}

func (e *RejectedUpload) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.FileName, e.Reason)
}

func (e *RejectedUpload) Standard() *StandardError {
	std := newError(ErrCodeUploadRejected, e.Reason, e.FileName, false)
	std.Metadata = map[string]interface{}{"documentType": e.DocumentType}
	return std
}

// SubmissionFailure wraps a submitter error. The application stays
// submitted and pending; calling Submit again retries.
type SubmissionFailure struct {
	ApplicationID string
	Cause         error
}

func (e *SubmissionFailure) Error() string {
	return fmt.Sprintf("submission of application %s failed, retry submission: %v", e.ApplicationID, e.Cause)
}

func (e *SubmissionFailure) Unwrap() error { return e.Cause }

func (e *SubmissionFailure) Standard() *StandardError {
	std := NewSubmissionFailedError(e.Cause)
	std.Metadata = map[string]interface{}{"applicationId": e.ApplicationID}
	return std
}

// DraftSaveFailure is non-fatal; editing continues.
type DraftSaveFailure struct {
	Cause error
}

func (e *DraftSaveFailure) Error() string {
	return fmt.Sprintf("draft could not be saved: %v", e.Cause)
}

func (e *DraftSaveFailure) Unwrap() error { return e.Cause }

func (e *DraftSaveFailure) Standard() *StandardError {
	return NewDraftSaveFailedError(e.Cause)
}
