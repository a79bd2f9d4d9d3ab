package stats

import (
	"goab/domain/abtest"
	"goab/domain/core"
)

// RevenueCalculator projects the monthly and annual revenue impact of
// shipping the treatment, given a rate pair and business parameters.
type RevenueCalculator struct{}

// NewRevenueCalculator creates a new revenue calculator
func NewRevenueCalculator() *RevenueCalculator {
	return &RevenueCalculator{}
}

// RevenueImpact is pure arithmetic over validated inputs.
func (c *RevenueCalculator) RevenueImpact(rateControl, rateTreatment, avgOrderValue float64, monthlyVisitors int) (*abtest.RevenueImpact, error) {
	if rateControl < 0 || rateControl > 1 {
		return nil, core.NewInvalidParameterError("rate_control", rateControl, "must be in [0,1]")
	}
	if rateTreatment < 0 || rateTreatment > 1 {
		return nil, core.NewInvalidParameterError("rate_treatment", rateTreatment, "must be in [0,1]")
	}
	if avgOrderValue < 0 {
		return nil, core.NewInvalidParameterError("avg_order_value", avgOrderValue, "must be non-negative")
	}
	if monthlyVisitors < 0 {
		return nil, core.NewInvalidParameterError("monthly_visitors", monthlyVisitors, "must be non-negative")
	}

	visitors := float64(monthlyVisitors)
	baseline := rateControl * visitors * avgOrderValue
	projected := rateTreatment * visitors * avgOrderValue
	uplift := projected - baseline

	return &abtest.RevenueImpact{
		BaselineMonthly:  baseline,
		TreatmentMonthly: projected,
		MonthlyUplift:    uplift,
		AnnualUplift:     uplift * 12,
	}, nil
}
