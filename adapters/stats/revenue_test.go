package stats

import (
	"testing"

	"goab/domain/core"
)

func TestRevenueImpact_WorkedExample(t *testing.T) {
	calc := NewRevenueCalculator()

	res, err := calc.RevenueImpact(0.10, 0.12, 100, 100000)
	if err != nil {
		t.Fatalf("revenue impact: %v", err)
	}
	if res.BaselineMonthly != 1_000_000 {
		t.Errorf("baseline monthly should be 1,000,000, got %f", res.BaselineMonthly)
	}
	if res.TreatmentMonthly != 1_200_000 {
		t.Errorf("treatment monthly should be 1,200,000, got %f", res.TreatmentMonthly)
	}
	if res.MonthlyUplift != 200_000 {
		t.Errorf("monthly uplift should be 200,000, got %f", res.MonthlyUplift)
	}
	if res.AnnualUplift != 2_400_000 {
		t.Errorf("annual uplift should be 2,400,000, got %f", res.AnnualUplift)
	}
}

func TestRevenueImpact_NegativeUplift(t *testing.T) {
	calc := NewRevenueCalculator()

	res, err := calc.RevenueImpact(0.12, 0.10, 50, 10000)
	if err != nil {
		t.Fatalf("revenue impact: %v", err)
	}
	if res.MonthlyUplift >= 0 {
		t.Errorf("losing treatment should project negative uplift, got %f", res.MonthlyUplift)
	}
	if res.AnnualUplift != 12*res.MonthlyUplift {
		t.Errorf("annual should be 12x monthly: %f vs %f", res.AnnualUplift, res.MonthlyUplift)
	}
}

func TestRevenueImpact_InvalidInputs(t *testing.T) {
	calc := NewRevenueCalculator()

	cases := []struct {
		name         string
		rateC, rateT float64
		aov          float64
		visitors     int
	}{
		{"control rate above 1", 1.2, 0.1, 100, 1000},
		{"treatment rate below 0", 0.1, -0.1, 100, 1000},
		{"negative order value", 0.1, 0.12, -1, 1000},
		{"negative visitors", 0.1, 0.12, 100, -1},
	}
	for _, tc := range cases {
		_, err := calc.RevenueImpact(tc.rateC, tc.rateT, tc.aov, tc.visitors)
		if err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
			continue
		}
		if !core.IsInvalidParameterError(err) {
			t.Errorf("%s: expected invalid parameter error, got %v", tc.name, err)
		}
	}
}
