// internal/documents/policy_test.go
package documents

import (
	"testing"

	"loan-origination/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docTypes(reqs []models.DocumentRequirement) []models.DocumentType {
	out := make([]models.DocumentType, len(reqs))
	for i, r := range reqs {
		out[i] = r.DocumentType
	}
	return out
}

func TestRequiredDocuments_PerLoanType(t *testing.T) {
	tests := []struct {
		name     string
		loanType models.LoanType
		expected []models.DocumentType
	}{
		{
			name:     "personal",
			loanType: models.LoanTypePersonal,
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT", "SALARY_SLIP"},
		},
		{
			name:     "home",
			loanType: models.LoanTypeHome,
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT", "SALARY_SLIP", "PROPERTY_PAPERS", "PROPERTY_VALUATION"},
		},
		{
			name:     "vehicle",
			loanType: models.LoanTypeVehicle,
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT", "SALARY_SLIP", "VEHICLE_QUOTATION", "DRIVING_LICENSE"},
		},
		{
			name:     "education",
			loanType: models.LoanTypeEducation,
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT", "SALARY_SLIP", "ADMISSION_LETTER"},
		},
		{
			name:     "business skips salary slips",
			loanType: models.LoanTypeBusiness,
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT", "ITR", "BUSINESS_PROOF", "BUSINESS_PLAN"},
		},
		{
			name:     "unknown type gets baseline",
			loanType: models.LoanType("GOLD"),
			expected: []models.DocumentType{"AADHAAR", "PAN", "PHOTO", "BANK_STATEMENT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, docTypes(RequiredDocuments(tt.loanType)))
		})
	}
}

func TestRequiredDocuments_OptionalFlags(t *testing.T) {
	home := RequiredDocuments(models.LoanTypeHome)
	for _, r := range home {
		if r.DocumentType == models.DocPropertyValuation {
			assert.False(t, r.Required)
		} else {
			assert.True(t, r.Required, "%s should be required", r.DocumentType)
		}
	}

	business := RequiredDocuments(models.LoanTypeBusiness)
	last := business[len(business)-1]
	assert.Equal(t, models.DocBusinessPlan, last.DocumentType)
	assert.False(t, last.Required)
}

func TestRequiredDocuments_Limits(t *testing.T) {
	photo, ok := Requirement(models.LoanTypePersonal, models.DocPhoto)
	require.True(t, ok)
	assert.Equal(t, int64(2*1024*1024), photo.MaxSize)
	assert.True(t, photo.Accepts(FormatPNG))
	assert.False(t, photo.Accepts(FormatPDF))

	papers, ok := Requirement(models.LoanTypeHome, models.DocPropertyPapers)
	require.True(t, ok)
	assert.Equal(t, int64(20*1024*1024), papers.MaxSize)
	assert.Equal(t, []string{FormatPDF}, papers.AcceptedFormats)

	_, ok = Requirement(models.LoanTypePersonal, models.DocPropertyPapers)
	assert.False(t, ok)
}

func TestRequiredDocuments_ReturnsFreshSlices(t *testing.T) {
	first := RequiredDocuments(models.LoanTypePersonal)
	first[0].AcceptedFormats[0] = "gif"
	first[0].DisplayName = "changed"

	second := RequiredDocuments(models.LoanTypePersonal)
	assert.Equal(t, "Aadhaar Card", second[0].DisplayName)
	assert.Equal(t, FormatJPEG, second[0].AcceptedFormats[0])
}

func TestMissingRequired(t *testing.T) {
	uploads := []models.DocumentUpload{
		{DocumentType: models.DocAadhaar},
		{DocumentType: models.DocPAN},
		{DocumentType: models.DocPhoto},
		{DocumentType: models.DocBankStatement},
		{DocumentType: models.DocSalarySlip},
	}

	missing := MissingRequired(models.LoanTypeHome, uploads)
	assert.Equal(t, []models.DocumentType{models.DocPropertyPapers}, docTypes(missing))

	uploads = append(uploads, models.DocumentUpload{DocumentType: models.DocPropertyPapers})
	assert.Empty(t, MissingRequired(models.LoanTypeHome, uploads))
}
