package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/abtest"
	"goab/domain/core"
)

// SRMChecker detects sample ratio mismatch: a significant deviation of the
// observed group allocation from the expected traffic split, indicating a
// broken randomization or logging pipeline. Effect analysis downstream of a
// detected mismatch is statistically meaningless.
type SRMChecker struct{}

// NewSRMChecker creates a new SRM checker
func NewSRMChecker() *SRMChecker {
	return &SRMChecker{}
}

// CheckSRM runs a one-degree-of-freedom chi-square goodness-of-fit test of
// the observed counts against the expected split.
func (c *SRMChecker) CheckSRM(nControl, nTreatment int, expectedSplit, alpha float64) (*abtest.SRMResult, error) {
	if nControl < 0 {
		return nil, core.NewInvalidParameterError("n_control", nControl, "must be non-negative")
	}
	if nTreatment < 0 {
		return nil, core.NewInvalidParameterError("n_treatment", nTreatment, "must be non-negative")
	}
	if nControl == 0 && nTreatment == 0 {
		return nil, core.NewInvalidParameterError("counts", 0, "both groups empty")
	}
	if expectedSplit <= 0 || expectedSplit >= 1 {
		return nil, core.NewInvalidParameterError("expected_split", expectedSplit, "must be in (0,1)")
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, core.NewInvalidParameterError("alpha", alpha, "must be in (0,1)")
	}

	total := nControl + nTreatment
	expectedControl := float64(total) * expectedSplit
	expectedTreatment := float64(total) * (1 - expectedSplit)

	// The statistic divides by each expected count; a zero expected count
	// leaves it undefined.
	if expectedControl == 0 || expectedTreatment == 0 {
		return nil, core.NewDegenerateInputError("srm check", "expected count is zero")
	}

	chi2 := math.Pow(float64(nControl)-expectedControl, 2)/expectedControl +
		math.Pow(float64(nTreatment)-expectedTreatment, 2)/expectedTreatment

	chiDist := distuv.ChiSquared{K: 1}
	pValue := 1 - chiDist.CDF(chi2)

	return &abtest.SRMResult{
		NControl:           nControl,
		NTreatment:         nTreatment,
		Total:              total,
		ExpectedSplit:      expectedSplit,
		ActualSplitControl: float64(nControl) / float64(total),
		ExpectedControl:    expectedControl,
		ExpectedTreatment:  expectedTreatment,
		Chi2:               chi2,
		PValue:             pValue,
		SRMDetected:        pValue < alpha,
	}, nil
}
