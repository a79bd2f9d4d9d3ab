package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/abtest"
	"goab/domain/core"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// CohenH returns the arcsine-transform effect size between two proportions:
// 2·asin(√p2) − 2·asin(√p1). The sign is positive when p2 exceeds p1, so a
// positive MDE maps to a positive effect size.
func CohenH(p1, p2 float64) float64 {
	return 2*math.Asin(math.Sqrt(p2)) - 2*math.Asin(math.Sqrt(p1))
}

// normalIndPower returns the two-sided power of a two-independent-sample
// z-test with standardized effect size es and nobs1 observations:
// Φ(|es|·√n − z_{1−α/2}) + Φ(−|es|·√n − z_{1−α/2}).
//
// This is the single power primitive shared by the sample size solver and
// the retrospective power computation, so the two always agree.
func normalIndPower(es float64, nobs1 int, alpha float64) float64 {
	zCrit := stdNormal.Quantile(1 - alpha/2)
	shift := math.Abs(es) * math.Sqrt(float64(nobs1))
	return stdNormal.CDF(shift-zCrit) + stdNormal.CDF(-shift-zCrit)
}

// PowerCalculator solves the required per-group sample size for detecting a
// minimum absolute effect on a baseline conversion rate.
type PowerCalculator struct{}

// NewPowerCalculator creates a new power calculator
func NewPowerCalculator() *PowerCalculator {
	return &PowerCalculator{}
}

// CalculateSampleSize inverts the normal power equation analytically:
// n = ((z_{1−α/2} + z_power) / h)², rounded up.
func (c *PowerCalculator) CalculateSampleSize(spec abtest.PowerSpec) (*abtest.SampleSizeResult, error) {
	if spec.Alpha <= 0 || spec.Alpha >= 1 {
		return nil, core.NewInvalidParameterError("alpha", spec.Alpha, "must be in (0,1)")
	}
	if spec.Power <= 0 || spec.Power >= 1 {
		return nil, core.NewInvalidParameterError("power", spec.Power, "must be in (0,1)")
	}
	if spec.BaselineRate <= 0 || spec.BaselineRate >= 1 {
		return nil, core.NewInvalidParameterError("baseline_rate", spec.BaselineRate, "must be in (0,1)")
	}
	treatmentRate := spec.BaselineRate + spec.MDE
	if treatmentRate <= 0 || treatmentRate >= 1 {
		return nil, core.NewInvalidParameterError("mde", spec.MDE, "pushes treatment rate outside (0,1)")
	}
	if spec.MDE == 0 {
		return nil, core.NewInvalidParameterError("mde", spec.MDE, "must be non-zero")
	}

	effectSize := CohenH(spec.BaselineRate, treatmentRate)
	zAlpha := stdNormal.Quantile(1 - spec.Alpha/2)
	zPower := stdNormal.Quantile(spec.Power)

	n := int(math.Ceil(math.Pow((zAlpha+zPower)/math.Abs(effectSize), 2)))

	return &abtest.SampleSizeResult{
		NPerGroup:     n,
		NTotal:        2 * n,
		BaselineRate:  spec.BaselineRate,
		TreatmentRate: treatmentRate,
		MDE:           spec.MDE,
		RelativeMDE:   spec.MDE / spec.BaselineRate,
		EffectSize:    effectSize,
		Alpha:         spec.Alpha,
		Power:         spec.Power,
	}, nil
}
