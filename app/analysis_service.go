package app

import (
	"goab/domain/abtest"
	"goab/internal"
	"goab/internal/errors"
	"goab/internal/report"
	"goab/ports"
)

// ErrSRMBlocked is returned when the randomization check fails. Effect
// analysis is withheld: interpreting a test with broken assignment would be
// statistically meaningless, so the caller has to fix the pipeline first.
var ErrSRMBlocked = errors.New(errors.CodeSRMBlocked,
	"sample ratio mismatch detected; effect analysis blocked")

// AnalysisParams are the human-adjustable knobs for a full analysis run.
type AnalysisParams struct {
	Alpha           float64 `json:"alpha"`
	ExpectedSplit   float64 `json:"expected_split"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	MonthlyVisitors int     `json:"monthly_visitors"`
}

// AnalysisResult bundles one experiment snapshot's full readout. When SRM
// fires, only the SRM field is populated.
type AnalysisResult struct {
	SRM         *abtest.SRMResult         `json:"srm"`
	Frequentist *abtest.FrequentistResult `json:"frequentist,omitempty"`
	Bayesian    *abtest.BayesianResult    `json:"bayesian,omitempty"`
	Revenue     *abtest.RevenueImpact     `json:"revenue,omitempty"`
	Summary     *report.Summary           `json:"summary,omitempty"`
}

// AnalysisService runs the full decision pipeline over a fixed snapshot of
// counts: randomization check first, then both effect analyses and the
// revenue projection. Stateless; safe for concurrent use.
type AnalysisService struct {
	srm     ports.SRMDetector
	freq    ports.FrequentistTester
	bayes   ports.BayesianTester
	revenue ports.RevenueProjector
	logger  *internal.Logger
}

// NewAnalysisService wires the pipeline from its engine components.
func NewAnalysisService(
	srm ports.SRMDetector,
	freq ports.FrequentistTester,
	bayes ports.BayesianTester,
	revenue ports.RevenueProjector,
	logger *internal.Logger,
) *AnalysisService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &AnalysisService{srm: srm, freq: freq, bayes: bayes, revenue: revenue, logger: logger}
}

// Run executes the pipeline. The SRM gate is not skippable: a detected
// mismatch returns ErrSRMBlocked together with the SRM diagnostic so the
// caller can show the analyst what broke.
func (s *AnalysisService) Run(control, treatment abtest.RateObservation, params AnalysisParams) (*AnalysisResult, error) {
	srmRes, err := s.srm.CheckSRM(control.Trials, treatment.Trials, params.ExpectedSplit, params.Alpha)
	if err != nil {
		return nil, err
	}
	if srmRes.SRMDetected {
		s.logger.Warn("SRM detected: %d vs %d against split %.2f (p=%.6f)",
			control.Trials, treatment.Trials, params.ExpectedSplit, srmRes.PValue)
		return &AnalysisResult{SRM: srmRes}, ErrSRMBlocked
	}

	freqRes, err := s.freq.RunZTest(control, treatment, params.Alpha)
	if err != nil {
		return nil, err
	}

	bayesRes, err := s.bayes.BayesianABTest(control, treatment)
	if err != nil {
		return nil, err
	}

	impact, err := s.revenue.RevenueImpact(
		freqRes.RateControl, freqRes.RateTreatment,
		params.AvgOrderValue, params.MonthlyVisitors,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analysis complete: diff=%+.4f p=%.4f significant=%t P(T>C)=%.4f",
		freqRes.Diff, freqRes.PValue, freqRes.Significant, bayesRes.ProbTreatmentBetter)

	return &AnalysisResult{
		SRM:         srmRes,
		Frequentist: freqRes,
		Bayesian:    bayesRes,
		Revenue:     impact,
		Summary:     report.Build(freqRes, bayesRes, impact),
	}, nil
}
