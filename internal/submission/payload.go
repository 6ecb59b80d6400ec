// Package submission maps a loan application onto the payload consumed by
// the review process.
package submission

import (
	"fmt"
	"strings"
	"time"

	"loan-origination/internal/common/validation"
	"loan-origination/internal/models"
)

var docTypeMapping = map[models.DocumentType]string{
	models.DocAadhaar:       "aadhaar",
	models.DocPAN:           "pan",
	models.DocBankStatement: "bank_statement",
	models.DocSalarySlip:    "payslip",
	models.DocITR:           "itr",
}

// DocType returns the backend document category; unknown types are "other".
func DocType(t models.DocumentType) string {
	if v, ok := docTypeMapping[t]; ok {
		return v
	}
	return "other"
}

// CollateralType classifies a free-text collateral description.
func CollateralType(description string) string {
	t := strings.ToLower(description)
	switch {
	case t == "":
		return "property"
	case strings.Contains(t, "property") || strings.Contains(t, "real estate"):
		return "property"
	case strings.Contains(t, "gold"):
		return "gold"
	case strings.Contains(t, "vehicle") || strings.Contains(t, "car"):
		return "vehicle"
	case strings.Contains(t, "fd") || strings.Contains(t, "deposit"):
		return "fixed_deposit"
	case strings.Contains(t, "securities") || strings.Contains(t, "shares"):
		return "securities"
	}
	return "property"
}

// Build maps the aggregate. Collections are never nil so the payload always
// carries empty arrays.
func Build(app models.LoanApplication) Payload {
	ad := app.ApplicantDetails
	if ad == nil {
		ad = &models.ApplicantDetails{}
	}
	fin := app.FinancialDetails
	basic := app.BasicDetails

	p := Payload{
		ApplicationID: app.ApplicationID,
		ApplicantID:   app.ApplicantID,

		MaritalStatus: ad.MaritalStatus,
		Nationality:   "Indian",
		PANNumber:     ad.PAN,
		AadhaarNumber: ad.Aadhaar,

		EmployerName:   fin.EmployerName,
		Designation:    fin.Designation,
		EmploymentType: employmentType(fin.EmploymentType),
		MonthlyIncome:  fin.MonthlyIncome(),

		BankName:      fin.BankName,
		AccountNumber: fin.AccountNumber,
		AccountType:   lowerOr(string(fin.AccountType), "savings"),
		IFSCCode:      fin.IFSCCode,

		ResidenceType:         strings.ReplaceAll(lowerOr(ad.ResidenceType, "rented"), " ", "_"),
		YearsAtCurrentAddress: ad.YearsAtCurrentAddress,

		TotalOutstandingDebt: fin.ExistingLoanEMI,
		TotalMonthlyEMI:      fin.ExistingLoanEMI,

		LoanType:     lowerOr(string(basic.LoanType), "personal"),
		LoanAmount:   basic.LoanAmount,
		TenureMonths: basic.Tenure,
		Purpose:      basic.Purpose,

		Documents:   make([]Document, 0, len(app.Documents)),
		References:  []Reference{},
		Collaterals: []Collateral{},
	}

	if app.SubmittedAt != nil {
		p.SubmittedAt = app.SubmittedAt.UTC().Format(time.RFC3339)
	}

	fullName := strings.TrimSpace(ad.FirstName + " " + ad.LastName)
	for _, d := range app.Documents {
		p.Documents = append(p.Documents, Document{
			DocType: DocType(d.DocumentType),
			FileURL: d.FileURL,
			Name:    fullName,
			DOB:     ad.DateOfBirth,
			Gender:  ad.Gender,
			Address: ad.CurrentAddress,
		})
	}

	if basic.HasCoApplicant {
		p.References = append(p.References, Reference{
			ReferenceName: basic.CoApplicantName,
			Relationship:  lowerOr(basic.CoApplicantRelation, "family"),
		})
	}

	if basic.HasCollateral {
		desc := basic.CollateralType
		if desc == "" {
			desc = "Collateral"
		}
		p.Collaterals = append(p.Collaterals, Collateral{
			CollateralType:        CollateralType(basic.CollateralType),
			CollateralDescription: desc,
			EstimatedValue:        basic.CollateralValue,
		})
	}

	return p
}

// employmentType renders SELF_EMPLOYED as self-employed.
func employmentType(t models.EmploymentType) string {
	if t == "" {
		return "salaried"
	}
	return strings.Replace(strings.ToLower(string(t)), "_", "-", 1)
}

func lowerOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.ToLower(v)
}

var payloadSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "applicantId", "panNumber", "aadhaarNumber", "loanType", "loanAmount", "tenureMonths", "documents"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "applicantId": {"type": "string", "minLength": 1},
    "panNumber": {"type": "string", "pattern": "^[A-Z]{5}[0-9]{4}[A-Z]$"},
    "aadhaarNumber": {"type": "string", "pattern": "^[0-9]{12}$"},
    "employmentType": {"enum": ["salaried", "self-employed", "business", "professional", "retired"]},
    "loanType": {"enum": ["personal", "home", "vehicle", "education", "business"]},
    "loanAmount": {"type": "number", "minimum": 1},
    "tenureMonths": {"type": "integer", "minimum": 1},
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["docType", "fileUrl"],
        "properties": {
          "docType": {"enum": ["aadhaar", "pan", "passport", "voter_id", "payslip", "bank_statement", "itr", "other"]}
        }
      }
    },
    "collaterals": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "collateralType": {"enum": ["property", "gold", "vehicle", "fixed_deposit", "securities"]}
        }
      }
    }
  }
}`)

// Validate checks the payload against the backend contract.
func Validate(p Payload) error {
	res, err := payloadSchema.Validate(p)
	if err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("submission payload invalid: %s", strings.Join(res.GetErrorMessages(), "; "))
	}
	return nil
}
