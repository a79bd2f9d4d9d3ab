package stats

import (
	"runtime"

	montstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/abtest"
	"goab/domain/core"
	"goab/ports"
)

const (
	// DefaultSampleCount balances credible-interval variance against compute
	// cost. Larger counts tighten the interval at O(n) cost.
	DefaultSampleCount = 100000

	// DefaultSeed pins the posterior draws so identical inputs reproduce
	// identical outputs bit-for-bit across runs.
	DefaultSeed = 42

	// sampleChunk is the fixed batch size for parallel draws. Chunk
	// boundaries never depend on GOMAXPROCS; each chunk has its own derived
	// source, so scheduling cannot perturb the output.
	sampleChunk = 16384
)

// BayesianSampler runs the beta-binomial conjugate comparison of two
// conversion rates under independent Beta(1,1) priors.
//
// The posterior means come from the closed form a/(a+b). The win probability,
// expected losses, and difference credible interval have no closed form under
// Beta difference sampling, so they are Monte Carlo estimates over seeded
// posterior draws.
type BayesianSampler struct {
	samples int
	rng     ports.RNGPort
}

// NewBayesianSampler creates a sampler with the given draw count and RNG
// provider. Zero or negative samples fall back to DefaultSampleCount; a nil
// rng falls back to a SeededRNG at DefaultSeed.
func NewBayesianSampler(samples int, rng ports.RNGPort) *BayesianSampler {
	if samples <= 0 {
		samples = DefaultSampleCount
	}
	if rng == nil {
		rng = NewSeededRNG(DefaultSeed)
	}
	return &BayesianSampler{samples: samples, rng: rng}
}

// BayesianABTest draws from both posteriors and compares them pairwise.
func (s *BayesianSampler) BayesianABTest(control, treatment abtest.RateObservation) (*abtest.BayesianResult, error) {
	if err := control.Validate("control"); err != nil {
		return nil, err
	}
	if err := treatment.Validate("treatment"); err != nil {
		return nil, err
	}

	// Conjugate update of the Beta(1,1) prior.
	aC := float64(control.Successes) + 1
	bC := float64(control.Trials-control.Successes) + 1
	aT := float64(treatment.Successes) + 1
	bT := float64(treatment.Trials-treatment.Successes) + 1

	samplesC, err := s.drawBeta("control", aC, bC)
	if err != nil {
		return nil, err
	}
	samplesT, err := s.drawBeta("treatment", aT, bT)
	if err != nil {
		return nil, err
	}

	diff := make([]float64, s.samples)
	winT := 0
	lossC := 0.0 // regret of staying on control when treatment is truly better
	lossT := 0.0 // regret of shipping treatment when it is truly worse
	for i := 0; i < s.samples; i++ {
		d := samplesT[i] - samplesC[i]
		diff[i] = d
		if d > 0 {
			winT++
			lossC += d
		} else {
			lossT -= d
		}
	}
	n := float64(s.samples)

	ciLow, err := montstats.Percentile(diff, 2.5)
	if err != nil {
		return nil, core.NewDegenerateInputError("bayesian test", "credible interval: "+err.Error())
	}
	ciHigh, err := montstats.Percentile(diff, 97.5)
	if err != nil {
		return nil, core.NewDegenerateInputError("bayesian test", "credible interval: "+err.Error())
	}

	probT := float64(winT) / n

	return &abtest.BayesianResult{
		ProbTreatmentBetter:    probT,
		ProbControlBetter:      1 - probT,
		ExpectedLossControl:    lossC / n,
		ExpectedLossTreatment:  lossT / n,
		PosteriorMeanControl:   aC / (aC + bC),
		PosteriorMeanTreatment: aT / (aT + bT),
		CI95Low:                ciLow,
		CI95High:               ciHigh,
		SamplesControl:         samplesC,
		SamplesTreatment:       samplesT,
		DiffSamples:            diff,
	}, nil
}

// drawBeta fills one posterior sample stream chunk by chunk. Each chunk gets
// its own derived source and writes a disjoint slice segment, so the draws
// are identical no matter how the chunks are scheduled.
func (s *BayesianSampler) drawBeta(stream string, alpha, beta float64) ([]float64, error) {
	out := make([]float64, s.samples)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < s.samples; start += sampleChunk {
		start := start
		chunk := start / sampleChunk
		end := start + sampleChunk
		if end > s.samples {
			end = s.samples
		}
		g.Go(func() error {
			dist := distuv.Beta{Alpha: alpha, Beta: beta, Src: s.rng.Source(stream, chunk)}
			for i := start; i < end; i++ {
				out[i] = dist.Rand()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
