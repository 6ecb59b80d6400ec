// internal/workers/loan/calculate-affordability/models.go
package calculateaffordability

import (
	"loan-origination/internal/affordability"
	"loan-origination/internal/common/validation"
	"loan-origination/internal/models"

	"github.com/shopspring/decimal"
)

type Input struct {
	LoanType            models.LoanType `json:"loanType"`
	LoanAmount          float64         `json:"loanAmount"`
	TenureMonths        int             `json:"tenureMonths"`
	MonthlyIncome       float64         `json:"monthlyIncome"`
	ExistingObligations float64         `json:"existingObligations"`
	AnnualInterestRate  *float64        `json:"annualInterestRate,omitempty"`
	IncludeSchedule     bool            `json:"includeSchedule"`
}

type Output struct {
	AnnualInterestRate  decimal.Decimal               `json:"annualInterestRate"`
	EMI                 decimal.Decimal               `json:"emi"`
	TotalInterest       decimal.Decimal               `json:"totalInterest"`
	TotalAmount         decimal.Decimal               `json:"totalAmount"`
	DTI                 *decimal.Decimal              `json:"dti"`
	AffordabilityStatus affordability.Classification  `json:"affordabilityStatus,omitempty"`
	Eligible            bool                          `json:"eligible"`
	IneligibleReason    string                        `json:"ineligibleReason,omitempty"`
	MaxDTI              float64                       `json:"maxDti"`
	Schedule            []affordability.ScheduleEntry `json:"amortizationSchedule,omitempty"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["loanType", "loanAmount", "tenureMonths", "monthlyIncome"],
  "properties": {
    "loanType": {"type": "string", "enum": ["PERSONAL", "HOME", "VEHICLE", "EDUCATION", "BUSINESS"]},
    "loanAmount": {"type": "number", "minimum": 1},
    "tenureMonths": {"type": "integer", "minimum": 1},
    "monthlyIncome": {"type": "number", "minimum": 0},
    "existingObligations": {"type": "number", "minimum": 0},
    "annualInterestRate": {"type": "number", "minimum": 0},
    "includeSchedule": {"type": "boolean"}
  }
}`)
