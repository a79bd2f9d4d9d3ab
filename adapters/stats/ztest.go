package stats

import (
	"math"

	"goab/domain/abtest"
	"goab/domain/core"
)

// ZTester runs the pooled two-proportion z-test with a Wald confidence
// interval on the rate difference and a retrospective power estimate.
type ZTester struct{}

// NewZTester creates a new z-tester
func NewZTester() *ZTester {
	return &ZTester{}
}

// RunZTest compares the treatment conversion rate against control.
//
// The significance decision uses the pooled standard error; the confidence
// interval uses the unpooled Wald standard error. Retrospective power
// re-solves the same normal power equation as the sample size calculator
// with the observed effect size and the control group's size as nobs1.
func (t *ZTester) RunZTest(control, treatment abtest.RateObservation, alpha float64) (*abtest.FrequentistResult, error) {
	if err := control.Validate("control"); err != nil {
		return nil, err
	}
	if err := treatment.Validate("treatment"); err != nil {
		return nil, err
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, core.NewInvalidParameterError("alpha", alpha, "must be in (0,1)")
	}

	nC := float64(control.Trials)
	nT := float64(treatment.Trials)
	rateC := control.Rate()
	rateT := treatment.Rate()

	pooled := float64(control.Successes+treatment.Successes) / (nC + nT)
	if pooled == 0 || pooled == 1 {
		return nil, core.NewDegenerateInputError("z-test", "pooled conversion rate is 0 or 1, statistic undefined")
	}

	// Relative uplift divides by the control rate. Explicit failure here
	// instead of silent Inf/NaN propagation.
	if rateC == 0 {
		return nil, core.NewUndefinedRatioError("relative uplift", "control rate")
	}

	sePooled := math.Sqrt(pooled * (1 - pooled) * (1/nC + 1/nT))
	zStat := (rateT - rateC) / sePooled
	pValue := 2 * (1 - stdNormal.CDF(math.Abs(zStat)))

	diff := rateT - rateC
	seWald := math.Sqrt(rateC*(1-rateC)/nC + rateT*(1-rateT)/nT)
	zCrit := stdNormal.Quantile(1 - alpha/2)

	achievedPower := normalIndPower(CohenH(rateC, rateT), control.Trials, alpha)

	return &abtest.FrequentistResult{
		RateControl:    rateC,
		RateTreatment:  rateT,
		Diff:           diff,
		RelativeUplift: diff / rateC * 100,
		ZStat:          zStat,
		PValue:         pValue,
		CILower:        diff - zCrit*seWald,
		CIUpper:        diff + zCrit*seWald,
		Significant:    pValue < alpha,
		Alpha:          alpha,
		AchievedPower:  achievedPower,
	}, nil
}
