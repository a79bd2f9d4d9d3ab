package datagen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"goab/domain/abtest"
)

// Dataset is the canonical in-memory representation of a synthetic
// e-commerce A/B test: one row per visitor of a landing page experiment
// (redesigned product page vs. original) over a two-week window.
//
// Columns:
// - user_id
// - timestamp
// - group
// - page_version
// - converted
// - revenue
// - device
// - country
// - session_duration_s
type Dataset struct {
	Headers []string
	Rows    [][]string // already formatted strings

	// Aggregates for validation/tests
	NControl      int
	NTreatment    int
	ConvControl   int
	ConvTreatment int
	RevenueTotal  float64
}

type Config struct {
	Users         int
	ControlRate   float64
	TreatmentRate float64
	AvgRevenue    float64
	RevenueStd    float64
	Days          int
	Split         float64
	Seed          int64
	StartDate     time.Time
}

func DefaultConfig() Config {
	return Config{
		Users:         45000,
		ControlRate:   0.104,
		TreatmentRate: 0.127,
		AvgRevenue:    88.0,
		RevenueStd:    34.0,
		Days:          14,
		Split:         0.50,
		Seed:          42,
		StartDate:     time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

var (
	devices       = []string{"mobile", "desktop", "tablet"}
	deviceWeights = []float64{0.61, 0.31, 0.08}

	countries      = []string{"CO", "MX", "AR", "BR", "PE"}
	countryWeights = []float64{0.35, 0.28, 0.16, 0.13, 0.08}
)

// Counts returns the per-group conversion observations the engine consumes.
func (d *Dataset) Counts() (control, treatment abtest.RateObservation) {
	control = abtest.RateObservation{Successes: d.ConvControl, Trials: d.NControl}
	treatment = abtest.RateObservation{Successes: d.ConvTreatment, Trials: d.NTreatment}
	return control, treatment
}

// Generate builds the dataset. All draws come from one seeded source, so a
// fixed config reproduces the same rows byte for byte.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.Users <= 0 {
		return nil, fmt.Errorf("users must be > 0")
	}
	if cfg.ControlRate < 0 || cfg.ControlRate > 1 || cfg.TreatmentRate < 0 || cfg.TreatmentRate > 1 {
		return nil, fmt.Errorf("conversion rates must be in [0,1]")
	}
	if cfg.Split <= 0 || cfg.Split >= 1 {
		return nil, fmt.Errorf("split must be in (0,1)")
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("days must be > 0")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	nControl := int(float64(cfg.Users) * cfg.Split)
	nTreatment := cfg.Users - nControl

	type visitor struct {
		userID    int
		ts        time.Time
		group     string
		page      string
		converted int
		revenue   float64
		device    string
		country   string
		sessionS  int
	}

	visitors := make([]visitor, 0, cfg.Users)

	ds := &Dataset{
		NControl:   nControl,
		NTreatment: nTreatment,
	}

	groups := []struct {
		name string
		n    int
		rate float64
		page string
	}{
		{"control", nControl, cfg.ControlRate, "old_page"},
		{"treatment", nTreatment, cfg.TreatmentRate, "new_page"},
	}

	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			v := visitor{
				userID: 10_000_000 + rng.Intn(90_000_000),
				group:  g.name,
				page:   g.page,
			}

			if rng.Float64() < g.rate {
				v.converted = 1
				rev := cfg.AvgRevenue + rng.NormFloat64()*cfg.RevenueStd
				if rev < 5.0 {
					rev = 5.0
				}
				v.revenue = math.Round(rev*100) / 100
				ds.RevenueTotal += v.revenue
				if g.name == "control" {
					ds.ConvControl++
				} else {
					ds.ConvTreatment++
				}
			}

			v.device = weightedChoice(rng, devices, deviceWeights)
			v.country = weightedChoice(rng, countries, countryWeights)
			v.sessionS = 30 + rng.Intn(570)
			v.ts = cfg.StartDate.
				AddDate(0, 0, rng.Intn(cfg.Days)).
				Add(time.Duration(rng.Intn(24))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)

			visitors = append(visitors, v)
		}
	}

	sort.SliceStable(visitors, func(i, j int) bool {
		return visitors[i].ts.Before(visitors[j].ts)
	})

	ds.Headers = []string{
		"user_id",
		"timestamp",
		"group",
		"page_version",
		"converted",
		"revenue",
		"device",
		"country",
		"session_duration_s",
	}

	ds.Rows = make([][]string, 0, cfg.Users)
	for _, v := range visitors {
		ds.Rows = append(ds.Rows, []string{
			strconv.Itoa(v.userID),
			v.ts.Format("2006-01-02 15:04:05"),
			v.group,
			v.page,
			strconv.Itoa(v.converted),
			strconv.FormatFloat(v.revenue, 'f', 2, 64),
			v.device,
			v.country,
			strconv.Itoa(v.sessionS),
		})
	}

	return ds, nil
}

func weightedChoice(rng *rand.Rand, values []string, weights []float64) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()

	// Ensure Sheet1 exists and is active.
	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < len(ds.Rows); r++ {
		rowIdx := r + 2
		for c, v := range ds.Rows[r] {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
