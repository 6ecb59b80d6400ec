// internal/models/document.go
package models

import "time"

type DocumentType string

const (
	DocAadhaar           DocumentType = "AADHAAR"
	DocPAN               DocumentType = "PAN"
	DocPhoto             DocumentType = "PHOTO"
	DocBankStatement     DocumentType = "BANK_STATEMENT"
	DocSalarySlip        DocumentType = "SALARY_SLIP"
	DocITR               DocumentType = "ITR"
	DocBusinessProof     DocumentType = "BUSINESS_PROOF"
	DocPropertyPapers    DocumentType = "PROPERTY_PAPERS"
	DocPropertyValuation DocumentType = "PROPERTY_VALUATION"
	DocVehicleQuotation  DocumentType = "VEHICLE_QUOTATION"
	DocDrivingLicense    DocumentType = "DRIVING_LICENSE"
	DocAdmissionLetter   DocumentType = "ADMISSION_LETTER"
	DocBusinessPlan      DocumentType = "BUSINESS_PLAN"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentVerified DocumentStatus = "VERIFIED"
	DocumentRejected DocumentStatus = "REJECTED"
)

type DocumentUpload struct {
	DocumentType    DocumentType   `json:"documentType"`
	FileName        string         `json:"fileName"`
	FileURL         string         `json:"fileUrl"`
	FileSize        int64          `json:"fileSize"`
	UploadedAt      time.Time      `json:"uploadedAt"`
	Status          DocumentStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// DocumentRequirement describes one document a loan product asks for.
// AcceptedFormats holds lower-case format names (pdf, jpeg, png).
type DocumentRequirement struct {
	DocumentType    DocumentType `json:"documentType"`
	DisplayName     string       `json:"displayName"`
	Required        bool         `json:"required"`
	AcceptedFormats []string     `json:"acceptedFormats"`
	MaxSize         int64        `json:"maxSize"`
	Description     string       `json:"description,omitempty"`
}

// Accepts reports whether format (pdf, jpeg, png) is allowed.
func (r DocumentRequirement) Accepts(format string) bool {
	for _, f := range r.AcceptedFormats {
		if f == format {
			return true
		}
	}
	return false
}
