// internal/workers/loan/load-applicant-profile/models.go
package loadapplicantprofile

import (
	"loan-origination/internal/common/validation"
	"loan-origination/internal/models"
)

type Input struct {
	ApplicantID      string                   `json:"applicantId"`
	ApplicantDetails *models.ApplicantDetails `json:"applicantDetails,omitempty"`
}

// Output carries the merged applicant details. ProfileFound is false when
// the applicant has no stored record; that is not an error.
type Output struct {
	ProfileFound     bool                     `json:"profileFound"`
	ApplicantDetails *models.ApplicantDetails `json:"applicantDetails,omitempty"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicantId"],
  "properties": {
    "applicantId": {"type": "string", "minLength": 1},
    "applicantDetails": {"type": ["object", "null"]}
  }
}`)
