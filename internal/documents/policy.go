// internal/documents/policy.go
package documents

import (
	"loan-origination/internal/models"
)

const (
	FormatPDF  = "pdf"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"

	mb = int64(1024 * 1024)
)

var (
	imageOrPDF = []string{FormatJPEG, FormatPNG, FormatPDF}
	imageOnly  = []string{FormatJPEG, FormatPNG}
	pdfOnly    = []string{FormatPDF}
)

// catalog holds the canonical definition of every document type.
var catalog = map[models.DocumentType]models.DocumentRequirement{
	models.DocAadhaar: {
		DisplayName:     "Aadhaar Card",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "Government issued identity proof",
	},
	models.DocPAN: {
		DisplayName:     "PAN Card",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "Permanent Account Number",
	},
	models.DocPhoto: {
		DisplayName:     "Passport Size Photo",
		Required:        true,
		AcceptedFormats: imageOnly,
		MaxSize:         2 * mb,
		Description:     "Recent passport size photograph",
	},
	models.DocBankStatement: {
		DisplayName:     "Bank Statements (Last 6 months)",
		Required:        true,
		AcceptedFormats: pdfOnly,
		MaxSize:         10 * mb,
		Description:     "Bank statements for the last 6 months",
	},
	models.DocSalarySlip: {
		DisplayName:     "Salary Slips (Last 3 months)",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "Latest 3 months salary slips",
	},
	models.DocITR: {
		DisplayName:     "Income Tax Returns (Last 2 years)",
		Required:        true,
		AcceptedFormats: pdfOnly,
		MaxSize:         10 * mb,
		Description:     "ITR acknowledgments for the last 2 years",
	},
	models.DocBusinessProof: {
		DisplayName:     "Business Registration",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "GST certificate, shop act license or incorporation certificate",
	},
	models.DocPropertyPapers: {
		DisplayName:     "Property Documents",
		Required:        true,
		AcceptedFormats: pdfOnly,
		MaxSize:         20 * mb,
		Description:     "Sale deed, agreement or title documents",
	},
	models.DocPropertyValuation: {
		DisplayName:     "Property Valuation Report",
		Required:        false,
		AcceptedFormats: pdfOnly,
		MaxSize:         10 * mb,
		Description:     "Valuation report from an approved valuer",
	},
	models.DocVehicleQuotation: {
		DisplayName:     "Vehicle Quotation",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "Proforma invoice from the dealer",
	},
	models.DocDrivingLicense: {
		DisplayName:     "Driving License",
		Required:        true,
		AcceptedFormats: imageOrPDF,
		MaxSize:         5 * mb,
		Description:     "Valid driving license",
	},
	models.DocAdmissionLetter: {
		DisplayName:     "Admission Letter",
		Required:        true,
		AcceptedFormats: pdfOnly,
		MaxSize:         5 * mb,
		Description:     "Admission letter from the institution",
	},
	models.DocBusinessPlan: {
		DisplayName:     "Business Plan",
		Required:        false,
		AcceptedFormats: pdfOnly,
		MaxSize:         10 * mb,
		Description:     "Business plan and projections",
	},
}

var baseline = []models.DocumentType{
	models.DocAadhaar,
	models.DocPAN,
	models.DocPhoto,
	models.DocBankStatement,
}

var byLoanType = map[models.LoanType][]models.DocumentType{
	models.LoanTypePersonal: {models.DocSalarySlip},
	models.LoanTypeHome: {
		models.DocSalarySlip,
		models.DocPropertyPapers,
		models.DocPropertyValuation,
	},
	models.LoanTypeVehicle: {
		models.DocSalarySlip,
		models.DocVehicleQuotation,
		models.DocDrivingLicense,
	},
	models.LoanTypeEducation: {
		models.DocSalarySlip,
		models.DocAdmissionLetter,
	},
	models.LoanTypeBusiness: {
		models.DocITR,
		models.DocBusinessProof,
		models.DocBusinessPlan,
	},
}

// RequiredDocuments resolves the document list for a loan type: the
// baseline identity and banking set followed by the product-specific set.
// Unknown loan types get the baseline only. Every call returns fresh
// values so callers may modify the result.
func RequiredDocuments(loanType models.LoanType) []models.DocumentRequirement {
	types := make([]models.DocumentType, 0, len(baseline)+3)
	types = append(types, baseline...)
	types = append(types, byLoanType[loanType]...)

	out := make([]models.DocumentRequirement, 0, len(types))
	for _, t := range types {
		out = append(out, lookup(t))
	}
	return out
}

// Requirement returns the requirement for a document type within a loan
// type's list. ok is false when the loan type does not ask for it.
func Requirement(loanType models.LoanType, docType models.DocumentType) (models.DocumentRequirement, bool) {
	for _, r := range RequiredDocuments(loanType) {
		if r.DocumentType == docType {
			return r, true
		}
	}
	return models.DocumentRequirement{}, false
}

// MissingRequired returns the required documents that have no upload
// among docs, in policy order.
func MissingRequired(loanType models.LoanType, docs []models.DocumentUpload) []models.DocumentRequirement {
	have := make(map[models.DocumentType]bool, len(docs))
	for _, d := range docs {
		have[d.DocumentType] = true
	}

	var missing []models.DocumentRequirement
	for _, r := range RequiredDocuments(loanType) {
		if r.Required && !have[r.DocumentType] {
			missing = append(missing, r)
		}
	}
	return missing
}

func lookup(t models.DocumentType) models.DocumentRequirement {
	r := catalog[t]
	r.DocumentType = t
	formats := make([]string, len(r.AcceptedFormats))
	copy(formats, r.AcceptedFormats)
	r.AcceptedFormats = formats
	return r
}
