package datagen

import (
	"math"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users = 2000

	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		for j := range a.Rows[i] {
			if a.Rows[i][j] != b.Rows[i][j] {
				t.Fatalf("row %d col %d differs: %q vs %q", i, j, a.Rows[i][j], b.Rows[i][j])
			}
		}
	}
	if a.ConvControl != b.ConvControl || a.ConvTreatment != b.ConvTreatment {
		t.Error("conversion aggregates must be reproducible")
	}
}

func TestGenerate_GroupSizesAndRates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users = 20000

	ds, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if ds.NControl != 10000 || ds.NTreatment != 10000 {
		t.Errorf("50/50 split of 20000 should give 10000/10000, got %d/%d", ds.NControl, ds.NTreatment)
	}
	if len(ds.Rows) != 20000 {
		t.Errorf("expected one row per user, got %d", len(ds.Rows))
	}

	control, treatment := ds.Counts()
	// Binomial(10000, p) stays within ~5 standard deviations of np.
	if math.Abs(control.Rate()-cfg.ControlRate) > 0.02 {
		t.Errorf("control rate %f too far from configured %f", control.Rate(), cfg.ControlRate)
	}
	if math.Abs(treatment.Rate()-cfg.TreatmentRate) > 0.02 {
		t.Errorf("treatment rate %f too far from configured %f", treatment.Rate(), cfg.TreatmentRate)
	}
}

func TestGenerate_RowsSortedByTimestamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users = 1000

	ds, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 1; i < len(ds.Rows); i++ {
		if ds.Rows[i-1][1] > ds.Rows[i][1] {
			t.Fatalf("rows out of timestamp order at %d: %s > %s", i, ds.Rows[i-1][1], ds.Rows[i][1])
		}
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero users", func(c *Config) { c.Users = 0 }},
		{"rate above 1", func(c *Config) { c.TreatmentRate = 1.5 }},
		{"split at 0", func(c *Config) { c.Split = 0 }},
		{"zero days", func(c *Config) { c.Days = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if _, err := Generate(cfg); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}
