package stats

import (
	"math"
	"testing"

	"goab/domain/core"
)

func TestBayesianABTest_PosteriorMeans(t *testing.T) {
	sampler := NewBayesianSampler(0, nil)

	res, err := sampler.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("bayesian test: %v", err)
	}

	// Closed-form conjugate means: (520+1)/5002 and (640+1)/5002.
	if math.Abs(res.PosteriorMeanControl-521.0/5002.0) > 1e-12 {
		t.Errorf("posterior mean control should be 521/5002, got %f", res.PosteriorMeanControl)
	}
	if math.Abs(res.PosteriorMeanTreatment-641.0/5002.0) > 1e-12 {
		t.Errorf("posterior mean treatment should be 641/5002, got %f", res.PosteriorMeanTreatment)
	}
	if res.PosteriorMeanTreatment <= res.PosteriorMeanControl {
		t.Error("treatment posterior mean must exceed control here")
	}
	if res.ProbTreatmentBetter <= 0.95 {
		t.Errorf("P(treatment>control) should exceed 0.95, got %f", res.ProbTreatmentBetter)
	}
	if math.Abs(res.ProbTreatmentBetter+res.ProbControlBetter-1) > 1e-12 {
		t.Errorf("win probabilities should sum to 1, got %f + %f",
			res.ProbTreatmentBetter, res.ProbControlBetter)
	}
}

func TestBayesianABTest_Determinism(t *testing.T) {
	a := NewBayesianSampler(DefaultSampleCount, NewSeededRNG(DefaultSeed))
	b := NewBayesianSampler(DefaultSampleCount, NewSeededRNG(DefaultSeed))

	resA, err := a.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	resB, err := b.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if resA.ProbTreatmentBetter != resB.ProbTreatmentBetter {
		t.Errorf("win probability must be bit-identical: %v vs %v",
			resA.ProbTreatmentBetter, resB.ProbTreatmentBetter)
	}
	if resA.ExpectedLossControl != resB.ExpectedLossControl ||
		resA.ExpectedLossTreatment != resB.ExpectedLossTreatment {
		t.Error("expected losses must be bit-identical across runs")
	}
	if resA.CI95Low != resB.CI95Low || resA.CI95High != resB.CI95High {
		t.Error("credible interval must be bit-identical across runs")
	}
	for i := range resA.SamplesControl {
		if resA.SamplesControl[i] != resB.SamplesControl[i] {
			t.Fatalf("posterior draw %d differs: %v vs %v", i, resA.SamplesControl[i], resB.SamplesControl[i])
		}
	}
}

func TestBayesianABTest_SeedChangesDraws(t *testing.T) {
	a := NewBayesianSampler(20000, NewSeededRNG(42))
	b := NewBayesianSampler(20000, NewSeededRNG(43))

	resA, err := a.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("seed 42: %v", err)
	}
	resB, err := b.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("seed 43: %v", err)
	}
	if resA.SamplesControl[0] == resB.SamplesControl[0] {
		t.Error("different seeds should not reproduce the same draw stream")
	}
}

func TestBayesianABTest_LossAndInterval(t *testing.T) {
	sampler := NewBayesianSampler(0, nil)

	res, err := sampler.BayesianABTest(obs(520, 5000), obs(640, 5000))
	if err != nil {
		t.Fatalf("bayesian test: %v", err)
	}

	if res.ExpectedLossControl < 0 || res.ExpectedLossTreatment < 0 {
		t.Errorf("expected losses are non-negative by construction: %f, %f",
			res.ExpectedLossControl, res.ExpectedLossTreatment)
	}
	// Staying on control is the costly mistake when treatment truly wins.
	if res.ExpectedLossControl <= res.ExpectedLossTreatment {
		t.Errorf("loss of keeping control should dominate: %f vs %f",
			res.ExpectedLossControl, res.ExpectedLossTreatment)
	}
	// E[max(d,0)] - E[max(-d,0)] = E[d], which matches the mean shift.
	meanShift := res.PosteriorMeanTreatment - res.PosteriorMeanControl
	if math.Abs((res.ExpectedLossControl-res.ExpectedLossTreatment)-meanShift) > 0.002 {
		t.Errorf("loss identity violated: %f vs mean shift %f",
			res.ExpectedLossControl-res.ExpectedLossTreatment, meanShift)
	}
	// A 2.4pp observed lift at n=5000 has a clearly positive credible interval.
	if res.CI95Low <= 0 {
		t.Errorf("credible interval should exclude zero, got low=%f", res.CI95Low)
	}
	if res.CI95High <= res.CI95Low {
		t.Errorf("interval bounds out of order: [%f, %f]", res.CI95Low, res.CI95High)
	}
	if len(res.DiffSamples) != DefaultSampleCount {
		t.Errorf("expected %d difference draws, got %d", DefaultSampleCount, len(res.DiffSamples))
	}
}

func TestBayesianABTest_InvalidCounts(t *testing.T) {
	sampler := NewBayesianSampler(1000, nil)

	if _, err := sampler.BayesianABTest(obs(10, 0), obs(10, 100)); err == nil || !core.IsInvalidParameterError(err) {
		t.Errorf("zero trials should be invalid, got %v", err)
	}
	if _, err := sampler.BayesianABTest(obs(10, 100), obs(200, 100)); err == nil || !core.IsInvalidParameterError(err) {
		t.Errorf("successes > trials should be invalid, got %v", err)
	}
}
