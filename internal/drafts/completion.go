// internal/drafts/completion.go
package drafts

import (
	"math"

	"loan-origination/internal/models"
)

const (
	fieldWeight = 70.0
	stepWeight  = 10.0
)

// Completion scores how far along a draft is:
// min(100, round(filledRatio*70 + (step-1)*10)).
// The fill ratio covers basic and financial fields; applicant fields are
// only counted when includeApplicant is set.
func Completion(snap models.DraftSnapshot, includeApplicant bool) int {
	filled := basicFields(snap.BasicDetails)
	filled = append(filled, financialFields(snap.FinancialDetails)...)
	if includeApplicant {
		filled = append(filled, applicantFields(snap.ApplicantDetails)...)
	}

	ratio := 0.0
	if len(filled) > 0 {
		n := 0
		for _, ok := range filled {
			if ok {
				n++
			}
		}
		ratio = float64(n) / float64(len(filled))
	}

	step := snap.CurrentStep
	if step < 1 {
		step = 1
	}
	score := math.Round(ratio*fieldWeight + float64(step-1)*stepWeight)
	return int(math.Min(100, score))
}

// HasFormData reports whether the applicant has entered anything beyond
// the defaults seeded at initialization.
func HasFormData(snap models.DraftSnapshot) bool {
	b := snap.BasicDetails
	if b.LoanAmount > 0 || b.Purpose != "" || b.HasCoApplicant || b.HasCollateral {
		return true
	}
	if a := snap.ApplicantDetails; a != nil {
		for _, ok := range applicantFields(a) {
			if ok {
				return true
			}
		}
	}
	f := snap.FinancialDetails
	if f.EmployerName != "" || f.BusinessName != "" || f.MonthlyGrossSalary > 0 || f.MonthlyNetSalary > 0 ||
		f.AnnualTurnover > 0 || f.BankName != "" || f.AccountNumber != "" || f.ExistingLoanEMI > 0 {
		return true
	}
	return len(snap.Documents) > 0
}

func basicFields(b models.BasicDetails) []bool {
	fields := []bool{
		b.LoanType != "",
		b.LoanAmount > 0,
		b.Tenure > 0,
		b.Purpose != "",
	}
	if b.HasCoApplicant {
		fields = append(fields, b.CoApplicantName != "", b.CoApplicantRelation != "")
	}
	if b.HasCollateral {
		fields = append(fields, b.CollateralType != "", b.CollateralValue > 0)
	}
	return fields
}

func financialFields(f models.FinancialDetails) []bool {
	fields := []bool{f.EmploymentType != ""}
	switch f.EmploymentType {
	case models.EmploymentSelfEmployed, models.EmploymentBusiness:
		fields = append(fields, f.BusinessName != "", f.BusinessType != "", f.AnnualTurnover > 0)
	default:
		fields = append(fields, f.EmployerName != "", f.Designation != "", f.MonthlyGrossSalary > 0, f.MonthlyNetSalary > 0)
	}
	return append(fields,
		f.BankName != "",
		f.AccountNumber != "",
		f.IFSCCode != "",
		f.AccountType != "",
	)
}

func applicantFields(a *models.ApplicantDetails) []bool {
	if a == nil {
		a = &models.ApplicantDetails{}
	}
	return []bool{
		a.FirstName != "",
		a.LastName != "",
		a.DateOfBirth != "",
		a.Gender != "",
		a.MaritalStatus != "",
		a.Email != "",
		a.Mobile != "",
		a.CurrentAddress != "",
		a.CurrentCity != "",
		a.CurrentState != "",
		a.CurrentPincode != "",
		a.ResidenceType != "",
		a.PAN != "",
		a.Aadhaar != "",
	}
}
