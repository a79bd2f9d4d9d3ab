package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	montstats "github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"

	"goab/domain/abtest"
)

// GroupCounts is one segment's per-group tally.
type GroupCounts struct {
	NControl      int `json:"n_control"`
	ConvControl   int `json:"conv_control"`
	NTreatment    int `json:"n_treatment"`
	ConvTreatment int `json:"conv_treatment"`
}

// Aggregates is everything the engine needs from an event-level dataset:
// overall per-group counts, revenue summaries, and optional segment
// breakdowns by device and country.
type Aggregates struct {
	Control   abtest.RateObservation `json:"control"`
	Treatment abtest.RateObservation `json:"treatment"`

	// AvgOrderValue is the mean revenue among converting visitors, 0 when
	// the dataset carries no revenue column.
	AvgOrderValue float64 `json:"avg_order_value"`
	RevenueTotal  float64 `json:"revenue_total"`

	Devices   map[string]GroupCounts `json:"devices,omitempty"`
	Countries map[string]GroupCounts `json:"countries,omitempty"`

	Rows int `json:"rows"`
}

// DataReader handles reading event-level A/B datasets from Excel and CSV
// files and pre-aggregating them into the counts the engine consumes.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadAggregates reads the file and rolls it up into engine inputs.
func (r *DataReader) ReadAggregates() (*Aggregates, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	return Aggregate(rows)
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use Sheet1
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	log.Printf("[DataReader] Sheet1 read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// Aggregate rolls event rows (header first) up into per-group counts.
// Required columns: group ("control"|"treatment") and converted (0/1).
// Optional: revenue, device, country. Column order is free.
func Aggregate(rows [][]string) (*Aggregates, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset must have a header row and at least one data row")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	groupIdx, ok := cols["group"]
	if !ok {
		return nil, fmt.Errorf("dataset is missing required column %q", "group")
	}
	convIdx, ok := cols["converted"]
	if !ok {
		return nil, fmt.Errorf("dataset is missing required column %q", "converted")
	}
	revenueIdx, hasRevenue := cols["revenue"]
	deviceIdx, hasDevice := cols["device"]
	countryIdx, hasCountry := cols["country"]

	agg := &Aggregates{}
	if hasDevice {
		agg.Devices = map[string]GroupCounts{}
	}
	if hasCountry {
		agg.Countries = map[string]GroupCounts{}
	}

	var orderValues []float64

	for rowNum, row := range rows[1:] {
		if len(row) <= groupIdx || len(row) <= convIdx {
			continue // ragged trailing row
		}

		group := strings.ToLower(strings.TrimSpace(row[groupIdx]))
		if group != "control" && group != "treatment" {
			return nil, fmt.Errorf("row %d: unknown group %q", rowNum+2, row[groupIdx])
		}

		converted, err := strconv.Atoi(strings.TrimSpace(row[convIdx]))
		if err != nil || (converted != 0 && converted != 1) {
			return nil, fmt.Errorf("row %d: converted must be 0 or 1, got %q", rowNum+2, row[convIdx])
		}

		agg.Rows++
		if group == "control" {
			agg.Control.Trials++
			agg.Control.Successes += converted
		} else {
			agg.Treatment.Trials++
			agg.Treatment.Successes += converted
		}

		if hasRevenue && len(row) > revenueIdx {
			if rev, err := strconv.ParseFloat(strings.TrimSpace(row[revenueIdx]), 64); err == nil && rev > 0 {
				agg.RevenueTotal += rev
				if converted == 1 {
					orderValues = append(orderValues, rev)
				}
			}
		}
		if hasDevice && len(row) > deviceIdx {
			tally(agg.Devices, strings.TrimSpace(row[deviceIdx]), group, converted)
		}
		if hasCountry && len(row) > countryIdx {
			tally(agg.Countries, strings.TrimSpace(row[countryIdx]), group, converted)
		}
	}

	if agg.Control.Trials == 0 || agg.Treatment.Trials == 0 {
		return nil, fmt.Errorf("dataset must contain rows for both control and treatment")
	}

	if len(orderValues) > 0 {
		mean, err := montstats.Mean(orderValues)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize revenue: %w", err)
		}
		agg.AvgOrderValue = mean
	}

	return agg, nil
}

func tally(segments map[string]GroupCounts, key, group string, converted int) {
	if key == "" {
		return
	}
	c := segments[key]
	if group == "control" {
		c.NControl++
		c.ConvControl += converted
	} else {
		c.NTreatment++
		c.ConvTreatment += converted
	}
	segments[key] = c
}
