package submission

// Payload is the body the review process receives for a submitted
// application. Field names follow the backend contract.
type Payload struct {
	ApplicationID string `json:"applicationId"`
	ApplicantID   string `json:"applicantId"`

	MaritalStatus string `json:"maritalStatus,omitempty"`
	Nationality   string `json:"nationality"`
	PANNumber     string `json:"panNumber"`
	AadhaarNumber string `json:"aadhaarNumber"`

	EmployerName   string  `json:"employerName,omitempty"`
	Designation    string  `json:"designation,omitempty"`
	EmploymentType string  `json:"employmentType"`
	MonthlyIncome  float64 `json:"monthlyIncome"`

	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	IFSCCode      string `json:"ifscCode"`

	ResidenceType         string `json:"residenceType"`
	YearsAtCurrentAddress int    `json:"yearsAtCurrentAddress"`

	TotalOutstandingDebt float64 `json:"totalOutstandingDebt"`
	TotalMonthlyEMI      float64 `json:"totalMonthlyEmi"`

	LoanType     string  `json:"loanType"`
	LoanAmount   float64 `json:"loanAmount"`
	TenureMonths int     `json:"tenureMonths"`
	Purpose      string  `json:"purpose,omitempty"`

	Documents   []Document   `json:"documents"`
	References  []Reference  `json:"references"`
	Collaterals []Collateral `json:"collaterals"`

	SubmittedAt string `json:"submittedAt,omitempty"`
}

type Document struct {
	DocType string `json:"docType"`
	FileURL string `json:"fileUrl"`
	Name    string `json:"name,omitempty"`
	DOB     string `json:"dob,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Address string `json:"address,omitempty"`
}

type Reference struct {
	ReferenceName string `json:"referenceName"`
	Relationship  string `json:"relationship"`
}

type Collateral struct {
	CollateralType        string  `json:"collateralType"`
	CollateralDescription string  `json:"collateralDescription"`
	EstimatedValue        float64 `json:"estimatedValue"`
}
