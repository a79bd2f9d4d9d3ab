package ports

import (
	"goab/domain/abtest"
)

// PowerAnalyzer converts a pre-experiment spec into a required sample size.
type PowerAnalyzer interface {
	CalculateSampleSize(spec abtest.PowerSpec) (*abtest.SampleSizeResult, error)
}

// SRMDetector runs the sample ratio mismatch diagnostic. It must be cheap to
// run before any effect analysis; callers are expected to gate on it.
type SRMDetector interface {
	CheckSRM(nControl, nTreatment int, expectedSplit, alpha float64) (*abtest.SRMResult, error)
}

// FrequentistTester runs the two-proportion z-test.
type FrequentistTester interface {
	RunZTest(control, treatment abtest.RateObservation, alpha float64) (*abtest.FrequentistResult, error)
}

// BayesianTester runs the beta-binomial posterior comparison.
// Implementations must be deterministic: identical observations produce
// bit-identical results across calls and processes.
type BayesianTester interface {
	BayesianABTest(control, treatment abtest.RateObservation) (*abtest.BayesianResult, error)
}

// RevenueProjector maps a rate pair plus business parameters into a
// monthly/annual financial projection.
type RevenueProjector interface {
	RevenueImpact(rateControl, rateTreatment, avgOrderValue float64, monthlyVisitors int) (*abtest.RevenueImpact, error)
}
