// internal/workers/loan/discard-application-draft/models.go
package discardapplicationdraft

import "loan-origination/internal/common/validation"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	DraftID      string `json:"draftId"`
	DraftDeleted bool   `json:"draftDeleted"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1}
  }
}`)
