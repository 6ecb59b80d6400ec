// internal/models/application.go
package models

import "time"

type LoanType string

const (
	LoanTypePersonal  LoanType = "PERSONAL"
	LoanTypeHome      LoanType = "HOME"
	LoanTypeVehicle   LoanType = "VEHICLE"
	LoanTypeEducation LoanType = "EDUCATION"
	LoanTypeBusiness  LoanType = "BUSINESS"
)

// LoanTypes lists every supported product in display order.
var LoanTypes = []LoanType{
	LoanTypePersonal,
	LoanTypeHome,
	LoanTypeVehicle,
	LoanTypeEducation,
	LoanTypeBusiness,
}

func (t LoanType) Valid() bool {
	for _, lt := range LoanTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// Label is the human name used in draft titles, e.g. "Home Loan".
func (t LoanType) Label() string {
	switch t {
	case LoanTypePersonal:
		return "Personal Loan"
	case LoanTypeHome:
		return "Home Loan"
	case LoanTypeVehicle:
		return "Vehicle Loan"
	case LoanTypeEducation:
		return "Education Loan"
	case LoanTypeBusiness:
		return "Business Loan"
	}
	return string(t)
}

type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "SALARIED"
	EmploymentSelfEmployed EmploymentType = "SELF_EMPLOYED"
	EmploymentBusiness     EmploymentType = "BUSINESS"
	EmploymentProfessional EmploymentType = "PROFESSIONAL"
	EmploymentRetired      EmploymentType = "RETIRED"
)

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentSalaried, EmploymentSelfEmployed, EmploymentBusiness, EmploymentProfessional, EmploymentRetired:
		return true
	}
	return false
}

type AccountType string

const (
	AccountSavings AccountType = "SAVINGS"
	AccountCurrent AccountType = "CURRENT"
)

type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "DRAFT"
	StatusSubmitted   ApplicationStatus = "SUBMITTED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// Rank orders statuses so transitions can be checked for monotonicity.
func (s ApplicationStatus) Rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusSubmitted:
		return 1
	case StatusUnderReview:
		return 2
	case StatusApproved, StatusRejected:
		return 3
	}
	return -1
}

// Step numbers of the application flow.
const (
	StepBasicDetails = iota + 1
	StepApplicantDetails
	StepFinancialDetails
	StepDocuments
	StepDeclarations
	StepReview

	TotalSteps = StepReview
)

var stepNames = map[int]string{
	StepBasicDetails:     "Basic Details",
	StepApplicantDetails: "Applicant Details",
	StepFinancialDetails: "Financial Details",
	StepDocuments:        "Document Upload",
	StepDeclarations:     "Declarations",
	StepReview:           "Review & Submit",
}

func StepName(step int) string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return "Unknown Step"
}

type BasicDetails struct {
	LoanType            LoanType `json:"loanType"`
	LoanAmount          float64  `json:"loanAmount"`
	Tenure              int      `json:"tenure"`
	Purpose             string   `json:"purpose,omitempty"`
	HasCoApplicant      bool     `json:"hasCoApplicant"`
	CoApplicantName     string   `json:"coApplicantName,omitempty"`
	CoApplicantRelation string   `json:"coApplicantRelation,omitempty"`
	HasCollateral       bool     `json:"hasCollateral"`
	CollateralType      string   `json:"collateralType,omitempty"`
	CollateralValue     float64  `json:"collateralValue,omitempty"`
}

type ApplicantDetails struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`

	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	AlternateNumber string `json:"alternateNumber,omitempty"`

	CurrentAddress        string `json:"currentAddress"`
	CurrentCity           string `json:"currentCity"`
	CurrentState          string `json:"currentState"`
	CurrentPincode        string `json:"currentPincode"`
	ResidenceType         string `json:"residenceType"`
	YearsAtCurrentAddress int    `json:"yearsAtCurrentAddress"`

	PermanentAddressSame bool   `json:"permanentAddressSame"`
	PermanentAddress     string `json:"permanentAddress,omitempty"`
	PermanentCity        string `json:"permanentCity,omitempty"`
	PermanentState       string `json:"permanentState,omitempty"`
	PermanentPincode     string `json:"permanentPincode,omitempty"`

	PAN                string `json:"pan"`
	Aadhaar            string `json:"aadhaar"`
	CoApplicantPAN     string `json:"coApplicantPan,omitempty"`
	CoApplicantAadhaar string `json:"coApplicantAadhaar,omitempty"`
}

// SyncPermanentAddress copies the current address into the permanent
// fields when the applicant declared them identical.
func (a *ApplicantDetails) SyncPermanentAddress() {
	if !a.PermanentAddressSame {
		return
	}
	a.PermanentAddress = a.CurrentAddress
	a.PermanentCity = a.CurrentCity
	a.PermanentState = a.CurrentState
	a.PermanentPincode = a.CurrentPincode
}

type FinancialDetails struct {
	EmploymentType EmploymentType `json:"employmentType"`
	EmployerName   string         `json:"employerName,omitempty"`
	Designation    string         `json:"designation,omitempty"`
	WorkExperience float64        `json:"workExperience,omitempty"`

	MonthlyGrossSalary float64 `json:"monthlyGrossSalary,omitempty"`
	MonthlyNetSalary   float64 `json:"monthlyNetSalary,omitempty"`

	BusinessName   string  `json:"businessName,omitempty"`
	BusinessType   string  `json:"businessType,omitempty"`
	AnnualTurnover float64 `json:"annualTurnover,omitempty"`

	OtherIncomeSources string  `json:"otherIncomeSources,omitempty"`
	OtherIncomeAmount  float64 `json:"otherIncomeAmount,omitempty"`

	ExistingLoanEMI   float64 `json:"existingLoanEmi"`
	CreditCardPayment float64 `json:"creditCardPayment"`
	OtherObligations  float64 `json:"otherObligations"`

	BankName             string      `json:"bankName"`
	AccountNumber        string      `json:"accountNumber"`
	IFSCCode             string      `json:"ifscCode"`
	AccountType          AccountType `json:"accountType"`
	BankStatementConsent bool        `json:"bankStatementConsent"`
}

// MonthlyIncome is gross salary, falling back to net salary and then
// to a twelfth of the annual turnover.
func (f FinancialDetails) MonthlyIncome() float64 {
	switch {
	case f.MonthlyGrossSalary > 0:
		return f.MonthlyGrossSalary
	case f.MonthlyNetSalary > 0:
		return f.MonthlyNetSalary
	case f.AnnualTurnover > 0:
		return f.AnnualTurnover / 12
	}
	return 0
}

// MonthlyObligations sums the recurring debt payments.
func (f FinancialDetails) MonthlyObligations() float64 {
	return f.ExistingLoanEMI + f.CreditCardPayment + f.OtherObligations
}

type Declarations struct {
	KYCConsent            bool       `json:"kycConsent"`
	CreditBureauConsent   bool       `json:"creditBureauConsent"`
	BankStatementConsent  bool       `json:"bankStatementConsent"`
	TermsAccepted         bool       `json:"termsAccepted"`
	PrivacyPolicyAccepted bool       `json:"privacyPolicyAccepted"`
	ESignConsent          bool       `json:"eSignConsent"`
	DeclarationDate       *time.Time `json:"declarationDate,omitempty"`
	IPAddress             string     `json:"ipAddress,omitempty"`
}

type LoanApplication struct {
	ApplicationID string `json:"applicationId"`
	ApplicantID   string `json:"applicantId"`

	BasicDetails     BasicDetails      `json:"basicDetails"`
	ApplicantDetails *ApplicantDetails `json:"applicantDetails,omitempty"`
	FinancialDetails FinancialDetails  `json:"financialDetails"`
	Documents        []DocumentUpload  `json:"documents"`
	Declarations     Declarations      `json:"declarations"`

	CurrentStep   int               `json:"currentStep"`
	Status        ApplicationStatus `json:"status"`
	SubmittedAt   *time.Time        `json:"submittedAt,omitempty"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`

	LoanID            string `json:"loanId,omitempty"`
	AssignedOfficerID string `json:"assignedOfficerId,omitempty"`
}

// Clone returns a deep copy safe to hand to observers and collaborators.
func (a LoanApplication) Clone() LoanApplication {
	out := a
	if a.ApplicantDetails != nil {
		ad := *a.ApplicantDetails
		out.ApplicantDetails = &ad
	}
	if a.Documents != nil {
		out.Documents = make([]DocumentUpload, len(a.Documents))
		copy(out.Documents, a.Documents)
	}
	if a.SubmittedAt != nil {
		ts := *a.SubmittedAt
		out.SubmittedAt = &ts
	}
	if a.Declarations.DeclarationDate != nil {
		ts := *a.Declarations.DeclarationDate
		out.Declarations.DeclarationDate = &ts
	}
	return out
}

// Document returns the upload recorded for a document type, if any.
func (a LoanApplication) Document(docType DocumentType) (DocumentUpload, bool) {
	for _, d := range a.Documents {
		if d.DocumentType == docType {
			return d, true
		}
	}
	return DocumentUpload{}, false
}

type SubmissionReceipt struct {
	LoanID            string `json:"loanId"`
	AssignedOfficerID string `json:"assignedOfficerId,omitempty"`
}
