package workflow

import (
	"fmt"
	"math"
	"time"

	"loan-origination/internal/affordability"
	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/validation"
	"loan-origination/internal/documents"
	"loan-origination/internal/models"
)

// violations collects broken rules for one step.
type violations []apperrors.Violation

func (v *violations) add(field, label, code, message string) {
	*v = append(*v, apperrors.Violation{Field: field, Label: label, Code: code, Message: message})
}

func (v *violations) required(field, label string) {
	v.add(field, label, apperrors.CodeRequired, label+" is required")
}

// text requires value and, when valid is given, checks its format.
func (v *violations) text(value, field, label string, valid func(string) bool) {
	switch {
	case value == "":
		v.required(field, label)
	case valid != nil && !valid(value):
		v.add(field, label, apperrors.CodeInvalid, label+" is not valid")
	}
}

// optional checks the format of a value only when it is present.
func (v *violations) optional(value, field, label string, valid func(string) bool) {
	if value != "" && !valid(value) {
		v.add(field, label, apperrors.CodeInvalid, label+" is not valid")
	}
}

func (v *violations) accepted(ok bool, field, label string) {
	if !ok {
		v.add(field, label, apperrors.CodeNotAccepted, label+" must be accepted")
	}
}

// Violations lists every rule the application breaks on step. The review
// step has no fields of its own and never fails.
func Violations(app models.LoanApplication, step int, rules Rules, now time.Time) []apperrors.Violation {
	var v violations
	switch step {
	case models.StepBasicDetails:
		checkBasic(&v, app.BasicDetails, rules)
	case models.StepApplicantDetails:
		checkApplicant(&v, app.ApplicantDetails, app.BasicDetails, now)
	case models.StepFinancialDetails:
		checkFinancial(&v, app.FinancialDetails, app.BasicDetails, rules)
	case models.StepDocuments:
		checkDocuments(&v, app)
	case models.StepDeclarations:
		checkDeclarations(&v, app.Declarations)
	case models.StepReview:
	default:
		v.add("currentStep", "Step", apperrors.CodeOutOfRange, fmt.Sprintf("step %d is outside 1..%d", step, models.TotalSteps))
	}
	return v
}

func checkBasic(v *violations, b models.BasicDetails, rules Rules) {
	if b.LoanType == "" {
		v.required("basicDetails.loanType", "Loan Type")
	} else if !b.LoanType.Valid() {
		v.add("basicDetails.loanType", "Loan Type", apperrors.CodeInvalid, fmt.Sprintf("Loan Type %q is not offered", b.LoanType))
	}

	switch {
	case b.LoanAmount <= 0:
		v.required("basicDetails.loanAmount", "Loan Amount")
	case b.LoanAmount < rules.MinAmount || b.LoanAmount > rules.MaxAmount:
		v.add("basicDetails.loanAmount", "Loan Amount", apperrors.CodeOutOfRange,
			fmt.Sprintf("Loan Amount must be between %.0f and %.0f", rules.MinAmount, rules.MaxAmount))
	}

	switch {
	case b.Tenure <= 0:
		v.required("basicDetails.tenure", "Tenure")
	case b.Tenure < rules.MinTenure || b.Tenure > rules.MaxTenure:
		v.add("basicDetails.tenure", "Tenure", apperrors.CodeOutOfRange,
			fmt.Sprintf("Tenure must be between %d and %d months", rules.MinTenure, rules.MaxTenure))
	}

	if b.HasCoApplicant {
		v.text(b.CoApplicantName, "basicDetails.coApplicantName", "Co-Applicant Name", validation.ValidatePersonName)
		v.text(b.CoApplicantRelation, "basicDetails.coApplicantRelation", "Co-Applicant Relation", nil)
	}

	if b.HasCollateral {
		v.text(b.CollateralType, "basicDetails.collateralType", "Collateral Type", nil)
		switch {
		case b.CollateralValue <= 0:
			v.required("basicDetails.collateralValue", "Collateral Value")
		case b.CollateralValue < minCollateralValue:
			v.add("basicDetails.collateralValue", "Collateral Value", apperrors.CodeOutOfRange,
				fmt.Sprintf("Collateral Value must be at least %d", minCollateralValue))
		}
	}
}

func checkApplicant(v *violations, a *models.ApplicantDetails, b models.BasicDetails, now time.Time) {
	if a == nil {
		a = &models.ApplicantDetails{}
	}
	const p = "applicantDetails."

	v.text(a.FirstName, p+"firstName", "First Name", validation.ValidatePersonName)
	v.optional(a.MiddleName, p+"middleName", "Middle Name", validation.ValidatePersonName)
	v.text(a.LastName, p+"lastName", "Last Name", validation.ValidatePersonName)

	if a.DateOfBirth == "" {
		v.required(p+"dateOfBirth", "Date of Birth")
	} else if age, ok := validation.AgeOn(a.DateOfBirth, now); !ok {
		v.add(p+"dateOfBirth", "Date of Birth", apperrors.CodeInvalid, "Date of Birth is not valid")
	} else if age < minApplicantAge || age > maxApplicantAge {
		v.add(p+"dateOfBirth", "Date of Birth", apperrors.CodeOutOfRange,
			fmt.Sprintf("Applicant must be between %d and %d years old", minApplicantAge, maxApplicantAge))
	}

	v.text(a.Gender, p+"gender", "Gender", nil)
	v.text(a.MaritalStatus, p+"maritalStatus", "Marital Status", nil)
	v.text(a.Email, p+"email", "Email", validation.ValidateEmail)
	v.text(a.Mobile, p+"mobile", "Mobile Number", validation.ValidateMobile)
	v.optional(a.AlternateNumber, p+"alternateNumber", "Alternate Number", validation.ValidateMobile)

	v.text(a.CurrentAddress, p+"currentAddress", "Current Address", validation.ValidateAddress)
	v.text(a.CurrentCity, p+"currentCity", "City", nil)
	v.text(a.CurrentState, p+"currentState", "State", nil)
	v.text(a.CurrentPincode, p+"currentPincode", "Pincode", validation.ValidatePincode)
	v.text(a.ResidenceType, p+"residenceType", "Residence Type", nil)
	if a.YearsAtCurrentAddress < 0 || a.YearsAtCurrentAddress > maxYearsAtAddress {
		v.add(p+"yearsAtCurrentAddress", "Years at Current Address", apperrors.CodeOutOfRange,
			fmt.Sprintf("Years at Current Address must be between 0 and %d", maxYearsAtAddress))
	}

	if !a.PermanentAddressSame {
		v.text(a.PermanentAddress, p+"permanentAddress", "Permanent Address", validation.ValidateAddress)
		v.text(a.PermanentCity, p+"permanentCity", "Permanent City", nil)
		v.text(a.PermanentState, p+"permanentState", "Permanent State", nil)
		v.text(a.PermanentPincode, p+"permanentPincode", "Permanent Pincode", validation.ValidatePincode)
	}

	v.text(a.PAN, p+"pan", "PAN Number", validation.ValidatePAN)
	v.text(a.Aadhaar, p+"aadhaar", "Aadhaar Number", validation.ValidateAadhaar)

	if b.HasCoApplicant {
		v.text(a.CoApplicantPAN, p+"coApplicantPan", "Co-Applicant PAN", validation.ValidatePAN)
		v.text(a.CoApplicantAadhaar, p+"coApplicantAadhaar", "Co-Applicant Aadhaar", validation.ValidateAadhaar)
	}
}

func checkFinancial(v *violations, f models.FinancialDetails, b models.BasicDetails, rules Rules) {
	const p = "financialDetails."

	if !f.EmploymentType.Valid() {
		if f.EmploymentType == "" {
			v.required(p+"employmentType", "Employment Type")
		} else {
			v.add(p+"employmentType", "Employment Type", apperrors.CodeInvalid, "Employment Type is not valid")
		}
	}

	switch f.EmploymentType {
	case models.EmploymentSalaried:
		v.text(f.EmployerName, p+"employerName", "Employer Name", nil)
		v.text(f.Designation, p+"designation", "Designation", nil)
		switch {
		case f.MonthlyGrossSalary <= 0:
			v.required(p+"monthlyGrossSalary", "Monthly Gross Salary")
		case f.MonthlyGrossSalary < minSalariedGross:
			v.add(p+"monthlyGrossSalary", "Monthly Gross Salary", apperrors.CodeOutOfRange,
				fmt.Sprintf("Monthly Gross Salary must be at least %d", minSalariedGross))
		}
	case models.EmploymentSelfEmployed, models.EmploymentBusiness:
		v.text(f.BusinessName, p+"businessName", "Business Name", nil)
		switch {
		case f.AnnualTurnover <= 0:
			v.required(p+"annualTurnover", "Annual Turnover")
		case f.AnnualTurnover < minBusinessTurnover:
			v.add(p+"annualTurnover", "Annual Turnover", apperrors.CodeOutOfRange,
				fmt.Sprintf("Annual Turnover must be at least %d", minBusinessTurnover))
		}
	}

	v.text(f.BankName, p+"bankName", "Bank Name", nil)
	v.text(f.AccountNumber, p+"accountNumber", "Account Number", validation.ValidateAccountNumber)
	v.text(f.IFSCCode, p+"ifscCode", "IFSC Code", validation.ValidateIFSC)
	if f.AccountType != models.AccountSavings && f.AccountType != models.AccountCurrent {
		v.required(p+"accountType", "Account Type")
	}
	v.accepted(f.BankStatementConsent, p+"bankStatementConsent", "Bank Statement Consent")

	income := f.MonthlyIncome()
	if income <= 0 {
		v.add(p+"monthlyIncome", "Monthly Income", apperrors.CodeRequired, "Monthly Income must be greater than zero")
		return
	}

	dti, ok := estimateDTI(b, f, rules)
	if ok && dti > rules.MaxDTI {
		v.add(p+"dti", dtiLabel, apperrors.CodeIneligible,
			fmt.Sprintf("Debt-to-income ratio of %.2f%% exceeds the %.0f%% limit", dti, rules.MaxDTI))
	}
}

// estimateDTI returns the DTI rounded to two places. It reports false while
// the loan terms or income are not usable yet.
func estimateDTI(b models.BasicDetails, f models.FinancialDetails, rules Rules) (float64, bool) {
	if b.LoanAmount <= 0 || b.Tenure <= 0 {
		return 0, false
	}
	emi := affordability.EMI(b.LoanAmount, rules.Rates.Rate(b.LoanType), b.Tenure)
	dti, err := affordability.DTI(emi, f.MonthlyObligations(), f.MonthlyIncome())
	if err != nil {
		return 0, false
	}
	return math.Round(dti*100) / 100, true
}

func checkDocuments(v *violations, app models.LoanApplication) {
	for _, req := range documents.MissingRequired(app.BasicDetails.LoanType, app.Documents) {
		v.add("documents."+string(req.DocumentType), req.DisplayName, apperrors.CodeMissingDoc, req.DisplayName+" has not been uploaded")
	}
}

func checkDeclarations(v *violations, d models.Declarations) {
	const p = "declarations."
	v.accepted(d.KYCConsent, p+"kycConsent", "KYC Consent")
	v.accepted(d.CreditBureauConsent, p+"creditBureauConsent", "Credit Bureau Consent")
	v.accepted(d.BankStatementConsent, p+"bankStatementConsent", "Bank Statement Consent")
	v.accepted(d.TermsAccepted, p+"termsAccepted", "Terms & Conditions")
	v.accepted(d.PrivacyPolicyAccepted, p+"privacyPolicyAccepted", "Privacy Policy")
}
