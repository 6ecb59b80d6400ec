// internal/workers/loan/resolve-required-documents/models.go
package resolverequireddocuments

import (
	"loan-origination/internal/common/validation"
	"loan-origination/internal/models"
)

type Input struct {
	LoanType          models.LoanType         `json:"loanType"`
	UploadedDocuments []models.DocumentUpload `json:"uploadedDocuments"`
}

type Output struct {
	RequiredDocuments []models.DocumentRequirement `json:"requiredDocuments"`
	MissingDocuments  []models.DocumentType        `json:"missingDocuments"`
	RejectedDocuments []models.DocumentType        `json:"rejectedDocuments"`
	DocumentsComplete bool                         `json:"documentsComplete"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["loanType"],
  "properties": {
    "loanType": {"type": "string", "enum": ["PERSONAL", "HOME", "VEHICLE", "EDUCATION", "BUSINESS"]},
    "uploadedDocuments": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["documentType"],
        "properties": {
          "documentType": {"type": "string", "minLength": 1},
          "status": {"type": "string", "enum": ["", "PENDING", "VERIFIED", "REJECTED"]}
        }
      }
    }
  }
}`)
