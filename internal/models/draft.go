// internal/models/draft.go
package models

import "time"

// DraftSnapshot is the serialized form state of an in-progress application.
type DraftSnapshot struct {
	ApplicationID    string            `json:"applicationId,omitempty"`
	CurrentStep      int               `json:"currentStep"`
	BasicDetails     BasicDetails      `json:"basicDetails"`
	ApplicantDetails *ApplicantDetails `json:"applicantDetails,omitempty"`
	FinancialDetails FinancialDetails  `json:"financialDetails"`
	Documents        []DocumentUpload  `json:"documents,omitempty"`
	Declarations     Declarations      `json:"declarations"`
}

type Draft struct {
	ID                   string        `json:"id"`
	ApplicantID          string        `json:"applicantId"`
	CurrentStep          int           `json:"currentStep"`
	TotalSteps           int           `json:"totalSteps"`
	CompletionPercentage int           `json:"completionPercentage"`
	LoanType             LoanType      `json:"loanType,omitempty"`
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	Snapshot             DraftSnapshot `json:"snapshot"`
	CreatedAt            time.Time     `json:"createdAt"`
	LastSaved            time.Time     `json:"lastSaved"`
}
