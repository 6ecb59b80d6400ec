// Package testutil holds application fixtures shared by package tests.
package testutil

import (
	"time"

	"loan-origination/internal/documents"
	"loan-origination/internal/models"
)

const (
	ApplicantID   = "applicant-42"
	ApplicationID = "3f2c9a1e-6b7d-4c1a-9e55-0a8b7c6d5e4f"
)

func BasicDetails(loanType models.LoanType) models.BasicDetails {
	return models.BasicDetails{
		LoanType:   loanType,
		LoanAmount: 500000,
		Tenure:     60,
		Purpose:    "Purchase of a two bedroom apartment",
	}
}

func ApplicantDetails() *models.ApplicantDetails {
	return &models.ApplicantDetails{
		FirstName:             "Asha",
		LastName:              "Rao",
		DateOfBirth:           "1990-05-14",
		Gender:                "FEMALE",
		MaritalStatus:         "MARRIED",
		Email:                 "asha.rao@example.in",
		Mobile:                "9876543210",
		CurrentAddress:        "42, 3rd Cross, Indiranagar",
		CurrentCity:           "Bengaluru",
		CurrentState:          "Karnataka",
		CurrentPincode:        "560038",
		ResidenceType:         "OWNED",
		YearsAtCurrentAddress: 6,
		PermanentAddressSame:  true,
		PermanentAddress:      "42, 3rd Cross, Indiranagar",
		PermanentCity:         "Bengaluru",
		PermanentState:        "Karnataka",
		PermanentPincode:      "560038",
		PAN:                   "ABCDE1234F",
		Aadhaar:               "123456789012",
	}
}

// FinancialDetails gives a salaried applicant whose DTI on the reference
// loan is 31.25 (GOOD).
func FinancialDetails() models.FinancialDetails {
	return models.FinancialDetails{
		EmploymentType:       models.EmploymentSalaried,
		EmployerName:         "Infosys",
		Designation:          "Engineer",
		WorkExperience:       8,
		MonthlyGrossSalary:   50000,
		MonthlyNetSalary:     42000,
		ExistingLoanEMI:      5000,
		BankName:             "HDFC Bank",
		AccountNumber:        "50100012345678",
		IFSCCode:             "HDFC0001234",
		AccountType:          models.AccountSavings,
		BankStatementConsent: true,
	}
}

func Declarations() models.Declarations {
	return models.Declarations{
		KYCConsent:            true,
		CreditBureauConsent:   true,
		BankStatementConsent:  true,
		TermsAccepted:         true,
		PrivacyPolicyAccepted: true,
	}
}

// Documents returns one upload per required document of the loan type.
func Documents(loanType models.LoanType) []models.DocumentUpload {
	var out []models.DocumentUpload
	for _, req := range documents.RequiredDocuments(loanType) {
		if !req.Required {
			continue
		}
		name := string(req.DocumentType) + ".pdf"
		out = append(out, models.DocumentUpload{
			DocumentType: req.DocumentType,
			FileName:     name,
			FileURL:      "https://docs.example.in/" + ApplicantID + "/" + name,
			FileSize:     1024,
			UploadedAt:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			Status:       models.DocumentPending,
		})
	}
	return out
}

// Application is a complete, valid DRAFT at the review step.
func Application(loanType models.LoanType) models.LoanApplication {
	return models.LoanApplication{
		ApplicationID:    ApplicationID,
		ApplicantID:      ApplicantID,
		BasicDetails:     BasicDetails(loanType),
		ApplicantDetails: ApplicantDetails(),
		FinancialDetails: FinancialDetails(),
		Documents:        Documents(loanType),
		Declarations:     Declarations(),
		CurrentStep:      models.StepReview,
		Status:           models.StatusDraft,
	}
}
