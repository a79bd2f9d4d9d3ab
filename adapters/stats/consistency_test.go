package stats

import (
	"math"
	"testing"

	"goab/domain/abtest"
	"goab/internal/datagen"
)

// The sample size solver and the retrospective power computation must invert
// the same normal power equation: planning for a target power and then
// observing exactly the planned rates at the planned n has to reproduce that
// power.
func TestPowerConsistency_ForwardBackward(t *testing.T) {
	calc := NewPowerCalculator()

	spec := abtest.PowerSpec{BaselineRate: 0.10, MDE: 0.02, Alpha: 0.05, Power: 0.80}
	res, err := calc.CalculateSampleSize(spec)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	achieved := normalIndPower(res.EffectSize, res.NPerGroup, spec.Alpha)
	// Ceiling the solved n can only add power, and only a little.
	if achieved < spec.Power-1e-9 {
		t.Errorf("achieved power %f below target %f", achieved, spec.Power)
	}
	if achieved > spec.Power+0.01 {
		t.Errorf("achieved power %f too far above target %f for a ceil-rounded n", achieved, spec.Power)
	}
}

func TestPowerConsistency_ThroughZTest(t *testing.T) {
	calc := NewPowerCalculator()
	tester := NewZTester()

	spec := abtest.PowerSpec{BaselineRate: 0.10, MDE: 0.02, Alpha: 0.05, Power: 0.80}
	res, err := calc.CalculateSampleSize(spec)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	// Counts matching the target rates as closely as integers allow.
	n := res.NPerGroup
	control := abtest.RateObservation{Successes: int(math.Round(float64(n) * spec.BaselineRate)), Trials: n}
	treatment := abtest.RateObservation{Successes: int(math.Round(float64(n) * res.TreatmentRate)), Trials: n}

	zres, err := tester.RunZTest(control, treatment, spec.Alpha)
	if err != nil {
		t.Fatalf("z-test: %v", err)
	}
	if math.Abs(zres.AchievedPower-spec.Power) > 0.02 {
		t.Errorf("retrospective power %f should reproduce the planned %f (rounding tolerance 0.02)",
			zres.AchievedPower, spec.Power)
	}
}

// A/A calibration: with no true effect, the z-test should reject close to
// alpha of the time and spread its p-values across (0,1), not pile them up.
// One seeded simulation per repetition keeps this reproducible.
func TestZTest_AACalibration(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration simulation is slow")
	}

	tester := NewZTester()

	const reps = 200
	significant := 0
	lowHalf := 0

	for rep := 0; rep < reps; rep++ {
		cfg := datagen.DefaultConfig()
		cfg.Users = 3000
		cfg.ControlRate = 0.10
		cfg.TreatmentRate = 0.10
		cfg.Seed = int64(1000 + rep)

		ds, err := datagen.Generate(cfg)
		if err != nil {
			t.Fatalf("rep %d: generate: %v", rep, err)
		}

		control, treatment := ds.Counts()
		res, err := tester.RunZTest(control, treatment, 0.05)
		if err != nil {
			t.Fatalf("rep %d: z-test: %v", rep, err)
		}
		if res.Significant {
			significant++
		}
		if res.PValue < 0.5 {
			lowHalf++
		}
	}

	falsePositiveRate := float64(significant) / reps
	if falsePositiveRate > 0.12 {
		t.Errorf("false positive rate %f far exceeds alpha=0.05 under the null", falsePositiveRate)
	}
	// Under the null the p-value is roughly uniform; half the mass below 0.5.
	if frac := float64(lowHalf) / reps; frac < 0.35 || frac > 0.65 {
		t.Errorf("p-value mass below 0.5 is %f, expected near 0.5 under the null", frac)
	}
}
