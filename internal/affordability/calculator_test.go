// internal/affordability/calculator_test.go
package affordability

import (
	"testing"

	"loan-origination/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func TestCompute_ReferenceLoan(t *testing.T) {
	res, err := Compute(Input{
		Principal:           500000,
		AnnualRatePct:       10,
		TenureMonths:        60,
		MonthlyIncome:       50000,
		ExistingObligations: 5000,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.008333, res.MonthlyRate, 0.000001)
	assert.Equal(t, "10623.52", res.EMI.StringFixed(2))
	assert.InDelta(t, 10623.18, f(res.EMI), 0.5)
	assert.Equal(t, "637411.34", res.TotalAmount.StringFixed(2))
	assert.Equal(t, "137411.34", res.TotalInterest.StringFixed(2))
	assert.Equal(t, "31.25", res.DTI.StringFixed(2))
	assert.Equal(t, Good, res.Classification)
	assert.Len(t, res.Schedule, 60)
}

func TestCompute_ScheduleClosesToZero(t *testing.T) {
	cases := []Input{
		{Principal: 500000, AnnualRatePct: 10, TenureMonths: 60, MonthlyIncome: 1},
		{Principal: 2500000, AnnualRatePct: 9.5, TenureMonths: 240, MonthlyIncome: 1},
		{Principal: 1000, AnnualRatePct: 14, TenureMonths: 6, MonthlyIncome: 1},
		{Principal: 75000, AnnualRatePct: 0, TenureMonths: 12, MonthlyIncome: 1},
		{Principal: 333333.33, AnnualRatePct: 13.5, TenureMonths: 37, MonthlyIncome: 1},
	}

	for _, in := range cases {
		res, err := Compute(in)
		require.NoError(t, err)

		last := res.Schedule[len(res.Schedule)-1]
		assert.True(t, last.Balance.IsZero(), "final balance for %+v was %s", in, last.Balance)

		sum := decimal.Zero
		for _, e := range res.Schedule {
			sum = sum.Add(e.Principal)
			assert.False(t, e.Balance.IsNegative())
		}
		assert.InDelta(t, in.Principal, f(sum), 0.01*float64(in.TenureMonths))

		assert.Equal(t, last.CumulativeInterest.StringFixed(0), res.TotalInterest.StringFixed(0))
	}
}

func TestCompute_ZeroRate(t *testing.T) {
	res, err := Compute(Input{Principal: 120000, AnnualRatePct: 0, TenureMonths: 12, MonthlyIncome: 40000})
	require.NoError(t, err)

	assert.Equal(t, "10000.00", res.EMI.StringFixed(2))
	assert.True(t, res.TotalInterest.IsZero())
	assert.Equal(t, "25.00", res.DTI.StringFixed(2))
	assert.Equal(t, Excellent, res.Classification)
}

func TestCompute_ZeroIncome(t *testing.T) {
	res, err := Compute(Input{Principal: 100000, AnnualRatePct: 12, TenureMonths: 12})
	assert.ErrorIs(t, err, ErrIncomeRequired)
	require.NotNil(t, res)
	assert.False(t, res.EMI.IsZero())
	assert.Empty(t, res.Classification)
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"zero principal", Input{Principal: 0, AnnualRatePct: 10, TenureMonths: 12, MonthlyIncome: 1}},
		{"zero tenure", Input{Principal: 1000, AnnualRatePct: 10, TenureMonths: 0, MonthlyIncome: 1}},
		{"negative rate", Input{Principal: 1000, AnnualRatePct: -1, TenureMonths: 12, MonthlyIncome: 1}},
		{"negative obligations", Input{Principal: 1000, AnnualRatePct: 10, TenureMonths: 12, MonthlyIncome: 1, ExistingObligations: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, res)
		})
	}
}

func TestDTI_Monotonicity(t *testing.T) {
	base, err := DTI(10000, 5000, 50000)
	require.NoError(t, err)

	higherEMI, _ := DTI(12000, 5000, 50000)
	higherObligations, _ := DTI(10000, 8000, 50000)
	higherIncome, _ := DTI(10000, 5000, 60000)

	assert.GreaterOrEqual(t, higherEMI, base)
	assert.GreaterOrEqual(t, higherObligations, base)
	assert.Less(t, higherIncome, base)

	for emi := 0.0; emi < 50000; emi += 2500 {
		a, _ := DTI(emi, 1000, 40000)
		b, _ := DTI(emi+1, 1000, 40000)
		assert.LessOrEqual(t, a, b)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		dti      float64
		expected Classification
	}{
		{0, Excellent},
		{30, Excellent},
		{30.01, Good},
		{40, Good},
		{45, Moderate},
		{50, Moderate},
		{50.01, Risky},
		{75, Risky},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.dti), "dti=%v", tt.dti)
	}
}

func TestRateTable(t *testing.T) {
	rates := DefaultRates()
	assert.Equal(t, 9.5, rates.Rate(models.LoanTypeHome))
	assert.Equal(t, 14.0, rates.Rate(models.LoanTypePersonal))
	assert.Equal(t, DefaultRate, rates.Rate(models.LoanType("GOLD")))

	merged := rates.Merge(map[string]float64{"home": 8.75, "vehicle": 0})
	assert.Equal(t, 8.75, merged.Rate(models.LoanTypeHome))
	assert.Equal(t, 11.5, merged.Rate(models.LoanTypeVehicle))
	assert.Equal(t, 9.5, rates.Rate(models.LoanTypeHome), "merge must not mutate the receiver")
}
