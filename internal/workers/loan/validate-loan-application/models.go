// internal/workers/loan/validate-loan-application/models.go
package validateloanapplication

import (
	"loan-origination/internal/common/validation"
	"loan-origination/internal/models"
	"loan-origination/internal/submission"
)

type Input struct {
	Application models.LoanApplication `json:"application"`
}

type Output struct {
	Valid         bool               `json:"valid"`
	ApplicationID string             `json:"applicationId"`
	StepsChecked  int                `json:"stepsChecked"`
	Payload       submission.Payload `json:"payload"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["application"],
  "properties": {
    "application": {
      "type": "object",
      "required": ["applicationId", "applicantId", "basicDetails"],
      "properties": {
        "applicationId": {"type": "string", "minLength": 1},
        "applicantId": {"type": "string", "minLength": 1},
        "basicDetails": {"type": "object"},
        "documents": {"type": ["array", "null"]}
      }
    }
  }
}`)
