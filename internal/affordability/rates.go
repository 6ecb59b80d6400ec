// internal/affordability/rates.go
package affordability

import (
	"strings"

	"loan-origination/internal/models"
)

const DefaultRate = 12.0

// RateTable maps a loan product to its annual interest rate in percent.
type RateTable map[models.LoanType]float64

func DefaultRates() RateTable {
	return RateTable{
		models.LoanTypePersonal:  14.0,
		models.LoanTypeHome:      9.5,
		models.LoanTypeVehicle:   11.5,
		models.LoanTypeEducation: 11.0,
		models.LoanTypeBusiness:  13.5,
	}
}

// Rate returns the configured rate, or DefaultRate for unknown products.
func (t RateTable) Rate(loanType models.LoanType) float64 {
	if rate, ok := t[loanType]; ok {
		return rate
	}
	return DefaultRate
}

// Merge overlays the non-zero entries of other onto a copy of t. Keys are
// matched case-insensitively since viper lower-cases map keys.
func (t RateTable) Merge(other map[string]float64) RateTable {
	out := make(RateTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		if v > 0 {
			out[models.LoanType(strings.ToUpper(k))] = v
		}
	}
	return out
}
