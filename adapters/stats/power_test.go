package stats

import (
	"math"
	"testing"

	"goab/domain/abtest"
	"goab/domain/core"
)

func TestCalculateSampleSize_BaselineScenario(t *testing.T) {
	calc := NewPowerCalculator()

	res, err := calc.CalculateSampleSize(abtest.PowerSpec{
		BaselineRate: 0.10,
		MDE:          0.02,
		Alpha:        0.05,
		Power:        0.80,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	// n = ((z_0.975 + z_0.80) / h)^2 with h = CohenH(0.10, 0.12) lands at
	// ~1917.2 before rounding up.
	if res.NPerGroup < 1915 || res.NPerGroup > 1920 {
		t.Errorf("expected n_per_group near 1918, got %d", res.NPerGroup)
	}
	if res.NTotal != 2*res.NPerGroup {
		t.Errorf("n_total should be 2*n_per_group, got %d vs %d", res.NTotal, res.NPerGroup)
	}
	if res.TreatmentRate != 0.12 {
		t.Errorf("treatment rate should echo baseline+mde, got %f", res.TreatmentRate)
	}
	if res.EffectSize <= 0 {
		t.Errorf("positive MDE should give positive effect size, got %f", res.EffectSize)
	}
	if math.Abs(res.RelativeMDE-0.2) > 1e-12 {
		t.Errorf("relative mde should be 0.2, got %f", res.RelativeMDE)
	}
}

func TestCalculateSampleSize_SignedMDE(t *testing.T) {
	calc := NewPowerCalculator()

	up, err := calc.CalculateSampleSize(abtest.PowerSpec{BaselineRate: 0.10, MDE: 0.02, Alpha: 0.05, Power: 0.80})
	if err != nil {
		t.Fatalf("positive mde: %v", err)
	}
	down, err := calc.CalculateSampleSize(abtest.PowerSpec{BaselineRate: 0.12, MDE: -0.02, Alpha: 0.05, Power: 0.80})
	if err != nil {
		t.Fatalf("negative mde: %v", err)
	}

	if down.EffectSize >= 0 {
		t.Errorf("negative MDE should give negative effect size, got %f", down.EffectSize)
	}
	// Same rate pair in opposite directions: same magnitude, same n.
	if math.Abs(up.EffectSize+down.EffectSize) > 1e-12 {
		t.Errorf("effect sizes should mirror: %f vs %f", up.EffectSize, down.EffectSize)
	}
	if up.NPerGroup != down.NPerGroup {
		t.Errorf("sample size should not depend on direction: %d vs %d", up.NPerGroup, down.NPerGroup)
	}
}

func TestCalculateSampleSize_Monotonicity(t *testing.T) {
	calc := NewPowerCalculator()

	n := func(mde, alpha, power float64) int {
		res, err := calc.CalculateSampleSize(abtest.PowerSpec{BaselineRate: 0.10, MDE: mde, Alpha: alpha, Power: power})
		if err != nil {
			t.Fatalf("calculate(mde=%f, alpha=%f, power=%f): %v", mde, alpha, power, err)
		}
		return res.NPerGroup
	}

	// Larger |mde| -> fewer samples needed.
	if !(n(0.01, 0.05, 0.8) >= n(0.02, 0.05, 0.8) && n(0.02, 0.05, 0.8) >= n(0.05, 0.05, 0.8)) {
		t.Errorf("n should be non-increasing in |mde|: %d, %d, %d",
			n(0.01, 0.05, 0.8), n(0.02, 0.05, 0.8), n(0.05, 0.05, 0.8))
	}
	// Higher power -> more samples.
	if n(0.02, 0.05, 0.9) < n(0.02, 0.05, 0.8) {
		t.Errorf("n should be non-decreasing in power: %d vs %d", n(0.02, 0.05, 0.9), n(0.02, 0.05, 0.8))
	}
	// Stricter alpha -> more samples.
	if n(0.02, 0.01, 0.8) < n(0.02, 0.05, 0.8) {
		t.Errorf("n should be non-decreasing as alpha shrinks: %d vs %d", n(0.02, 0.01, 0.8), n(0.02, 0.05, 0.8))
	}
}

func TestCalculateSampleSize_InvalidParameters(t *testing.T) {
	calc := NewPowerCalculator()

	cases := []struct {
		name string
		spec abtest.PowerSpec
	}{
		{"treatment rate above 1", abtest.PowerSpec{BaselineRate: 0.5, MDE: 0.6, Alpha: 0.05, Power: 0.8}},
		{"treatment rate below 0", abtest.PowerSpec{BaselineRate: 0.05, MDE: -0.1, Alpha: 0.05, Power: 0.8}},
		{"baseline at 0", abtest.PowerSpec{BaselineRate: 0, MDE: 0.02, Alpha: 0.05, Power: 0.8}},
		{"baseline at 1", abtest.PowerSpec{BaselineRate: 1, MDE: -0.02, Alpha: 0.05, Power: 0.8}},
		{"alpha at 0", abtest.PowerSpec{BaselineRate: 0.1, MDE: 0.02, Alpha: 0, Power: 0.8}},
		{"alpha at 1", abtest.PowerSpec{BaselineRate: 0.1, MDE: 0.02, Alpha: 1, Power: 0.8}},
		{"power at 1", abtest.PowerSpec{BaselineRate: 0.1, MDE: 0.02, Alpha: 0.05, Power: 1}},
		{"zero mde", abtest.PowerSpec{BaselineRate: 0.1, MDE: 0, Alpha: 0.05, Power: 0.8}},
	}

	for _, tc := range cases {
		_, err := calc.CalculateSampleSize(tc.spec)
		if err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
			continue
		}
		if !core.IsInvalidParameterError(err) {
			t.Errorf("%s: expected invalid parameter error, got %v", tc.name, err)
		}
	}
}
