package abtest

import (
	"goab/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// RateObservation is one group's raw conversion counts.
// INVARIANTS:
// - Trials > 0
// - 0 <= Successes <= Trials
type RateObservation struct {
	Successes int `json:"successes"`
	Trials    int `json:"trials"`
}

// Validate checks the count invariants for the named group.
func (o RateObservation) Validate(group string) error {
	if o.Trials <= 0 {
		return core.NewInvalidParameterError(group+" trials", o.Trials, "must be positive")
	}
	if o.Successes < 0 {
		return core.NewInvalidParameterError(group+" successes", o.Successes, "must be non-negative")
	}
	if o.Successes > o.Trials {
		return core.NewInvalidParameterError(group+" successes", o.Successes, "exceeds trials")
	}
	return nil
}

// Rate returns the observed conversion rate.
func (o RateObservation) Rate() float64 {
	return float64(o.Successes) / float64(o.Trials)
}

// PowerSpec describes a pre-experiment power calculation request.
// TreatmentRate = BaselineRate + MDE must stay inside (0,1).
type PowerSpec struct {
	BaselineRate float64 `json:"baseline_rate"`
	MDE          float64 `json:"mde"` // absolute, signed
	Alpha        float64 `json:"alpha"`
	Power        float64 `json:"power"`
}

// ============================================================================
// OPERATION RESULTS (One immutable record per engine call)
// ============================================================================

// SampleSizeResult is the output of the power analysis.
type SampleSizeResult struct {
	NPerGroup     int     `json:"n_per_group"`
	NTotal        int     `json:"n_total"`
	BaselineRate  float64 `json:"baseline_rate"`
	TreatmentRate float64 `json:"treatment_rate"`
	MDE           float64 `json:"mde"`
	RelativeMDE   float64 `json:"relative_mde"`
	EffectSize    float64 `json:"effect_size"` // Cohen's h, signed
	Alpha         float64 `json:"alpha"`
	Power         float64 `json:"power"`
}

// SRMResult is the sample ratio mismatch diagnostic.
// Downstream effect analysis is only valid when SRMDetected is false.
type SRMResult struct {
	NControl           int     `json:"n_control"`
	NTreatment         int     `json:"n_treatment"`
	Total              int     `json:"total"`
	ExpectedSplit      float64 `json:"expected_split"`
	ActualSplitControl float64 `json:"actual_split_control"`
	ExpectedControl    float64 `json:"expected_control"`
	ExpectedTreatment  float64 `json:"expected_treatment"`
	Chi2               float64 `json:"chi2"`
	PValue             float64 `json:"p_value"`
	SRMDetected        bool    `json:"srm_detected"`
}

// FrequentistResult is the two-proportion z-test output.
type FrequentistResult struct {
	RateControl    float64 `json:"rate_control"`
	RateTreatment  float64 `json:"rate_treatment"`
	Diff           float64 `json:"diff"`
	RelativeUplift float64 `json:"relative_uplift"` // percent of control rate
	ZStat          float64 `json:"z_stat"`
	PValue         float64 `json:"p_value"`
	CILower        float64 `json:"ci_lower"`
	CIUpper        float64 `json:"ci_upper"`
	Significant    bool    `json:"significant"`
	Alpha          float64 `json:"alpha"`
	AchievedPower  float64 `json:"achieved_power"`
}

// BayesianResult is the beta-binomial posterior comparison output.
// The sample slices are the raw Monte Carlo draws; they are reproduced
// bit-for-bit for identical inputs and seed.
type BayesianResult struct {
	ProbTreatmentBetter    float64   `json:"prob_treatment_better"`
	ProbControlBetter      float64   `json:"prob_control_better"`
	ExpectedLossControl    float64   `json:"expected_loss_control"`
	ExpectedLossTreatment  float64   `json:"expected_loss_treatment"`
	PosteriorMeanControl   float64   `json:"posterior_mean_control"`
	PosteriorMeanTreatment float64   `json:"posterior_mean_treatment"`
	CI95Low                float64   `json:"ci_95_low"`
	CI95High               float64   `json:"ci_95_high"`
	SamplesControl         []float64 `json:"-"`
	SamplesTreatment       []float64 `json:"-"`
	DiffSamples            []float64 `json:"-"`
}

// RevenueImpact is the monthly/annual financial projection.
type RevenueImpact struct {
	BaselineMonthly  float64 `json:"baseline_monthly"`
	TreatmentMonthly float64 `json:"treatment_monthly"`
	MonthlyUplift    float64 `json:"monthly_uplift"`
	AnnualUplift     float64 `json:"annual_uplift"`
}
