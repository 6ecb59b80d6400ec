package workflow

import (
	"loan-origination/internal/affordability"
	"loan-origination/internal/common/config"
)

// Rules are the configurable bounds the step validators enforce.
type Rules struct {
	Rates     affordability.RateTable
	MaxDTI    float64
	MinAmount float64
	MaxAmount float64
	MinTenure int
	MaxTenure int
}

const (
	minCollateralValue  = 1000
	minSalariedGross    = 10000
	minBusinessTurnover = 100000
	minApplicantAge     = 18
	maxApplicantAge     = 100
	maxYearsAtAddress   = 100
	defaultTenureMonths = 12
	dtiLabel            = "Debt-to-Income Ratio"
)

func DefaultRules() Rules {
	return Rules{
		Rates:     affordability.DefaultRates(),
		MaxDTI:    60,
		MinAmount: 1000,
		MaxAmount: 10000000,
		MinTenure: 6,
		MaxTenure: 360,
	}
}

// RulesFromConfig overlays configured values on the defaults; zero values
// keep the default.
func RulesFromConfig(cfg config.WorkflowConfig) Rules {
	r := DefaultRules()
	r.Rates = r.Rates.Merge(cfg.Rates)
	if cfg.MaxDTI > 0 {
		r.MaxDTI = cfg.MaxDTI
	}
	if cfg.MinAmount > 0 {
		r.MinAmount = cfg.MinAmount
	}
	if cfg.MaxAmount > 0 {
		r.MaxAmount = cfg.MaxAmount
	}
	if cfg.MinTenure > 0 {
		r.MinTenure = cfg.MinTenure
	}
	if cfg.MaxTenure > 0 {
		r.MaxTenure = cfg.MaxTenure
	}
	return r
}
