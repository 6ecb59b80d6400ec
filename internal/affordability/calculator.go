// internal/affordability/calculator.go
package affordability

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput   = errors.New("INVALID_AFFORDABILITY_INPUT")
	ErrIncomeRequired = errors.New("monthly income must be greater than zero to compute DTI")
)

type Classification string

const (
	Excellent Classification = "EXCELLENT"
	Good      Classification = "GOOD"
	Moderate  Classification = "MODERATE"
	Risky     Classification = "RISKY"
)

// Classify maps a DTI percentage to its advisory band.
func Classify(dti float64) Classification {
	switch {
	case dti <= 30:
		return Excellent
	case dti <= 40:
		return Good
	case dti <= 50:
		return Moderate
	default:
		return Risky
	}
}

type Input struct {
	Principal           float64
	AnnualRatePct       float64
	TenureMonths        int
	MonthlyIncome       float64
	ExistingObligations float64
}

type ScheduleEntry struct {
	Month              int             `json:"month"`
	EMI                decimal.Decimal `json:"emi"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	Balance            decimal.Decimal `json:"balance"`
	CumulativeInterest decimal.Decimal `json:"cumulativeInterest"`
}

type Result struct {
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annualInterestRate"`
	TenureMonths   int             `json:"tenureMonths"`
	MonthlyRate    float64         `json:"monthlyRate"`
	EMI            decimal.Decimal `json:"emi"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DTI            decimal.Decimal `json:"dti"`
	Classification Classification  `json:"affordabilityStatus"`
	Schedule       []ScheduleEntry `json:"amortizationSchedule"`
}

// MonthlyRate converts an annual percentage rate into the per-month fraction.
func MonthlyRate(annualRatePct float64) float64 {
	return annualRatePct / 12 / 100
}

// EMI returns the unrounded reducing-balance installment. A zero rate
// degrades to straight division of the principal.
func EMI(principal, annualRatePct float64, tenureMonths int) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	r := MonthlyRate(annualRatePct)
	n := float64(tenureMonths)
	if r == 0 {
		return principal / n
	}
	f := math.Pow(1+r, n)
	return principal * r * f / (f - 1)
}

// DTI returns the debt-to-income percentage, unrounded.
func DTI(emi, obligations, monthlyIncome float64) (float64, error) {
	if monthlyIncome <= 0 {
		return 0, ErrIncomeRequired
	}
	return (emi + obligations) / monthlyIncome * 100, nil
}

// Compute builds the full affordability picture. Intermediate values are
// kept at full precision; rounding to two places happens on output only.
// ErrIncomeRequired is returned together with a populated Result (minus
// DTI and classification) so callers can still show the repayment terms.
func Compute(in Input) (*Result, error) {
	if in.Principal <= 0 || in.TenureMonths <= 0 || in.AnnualRatePct < 0 || in.ExistingObligations < 0 || in.MonthlyIncome < 0 {
		return nil, fmt.Errorf("%w: principal=%v tenure=%d rate=%v", ErrInvalidInput, in.Principal, in.TenureMonths, in.AnnualRatePct)
	}

	r := MonthlyRate(in.AnnualRatePct)
	emi := EMI(in.Principal, in.AnnualRatePct, in.TenureMonths)
	total := emi * float64(in.TenureMonths)

	res := &Result{
		Principal:     round2(in.Principal),
		AnnualRatePct: decimal.NewFromFloat(in.AnnualRatePct),
		TenureMonths:  in.TenureMonths,
		MonthlyRate:   r,
		EMI:           round2(emi),
		TotalAmount:   round2(total),
		TotalInterest: round2(total - in.Principal),
		Schedule:      schedule(in.Principal, r, emi, in.TenureMonths),
	}

	dti, err := DTI(emi, in.ExistingObligations, in.MonthlyIncome)
	if err != nil {
		return res, err
	}
	res.DTI = round2(dti)
	res.Classification = Classify(dti)
	return res, nil
}

func schedule(principal, r, emi float64, n int) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, n)
	balance := principal
	cumulative := 0.0

	for month := 1; month <= n; month++ {
		interest := balance * r
		portion := emi - interest
		balance -= portion
		if month == n || balance < 0 {
			balance = 0
		}
		cumulative += interest

		entries = append(entries, ScheduleEntry{
			Month:              month,
			EMI:                round2(emi),
			Principal:          round2(portion),
			Interest:           round2(interest),
			Balance:            round2(balance),
			CumulativeInterest: round2(cumulative),
		})
	}
	return entries
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
