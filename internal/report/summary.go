package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goab/domain/abtest"
)

// Row is one labeled line of the business summary.
type Row struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Summary is the downloadable executive report: the eleven labeled rows the
// business side reads before a ship/no-ship decision.
type Summary struct {
	Rows []Row `json:"rows"`
}

// Build assembles the summary from the three analysis results.
func Build(freq *abtest.FrequentistResult, bayes *abtest.BayesianResult, impact *abtest.RevenueImpact) *Summary {
	significant := "No"
	if freq.Significant {
		significant = "Yes"
	}

	return &Summary{Rows: []Row{
		{"Control CVR", percent(freq.RateControl, 4, false)},
		{"Treatment CVR", percent(freq.RateTreatment, 4, false)},
		{"Absolute Lift", percent(freq.Diff, 4, true)},
		{"Relative Uplift", fmt.Sprintf("%+.2f%%", freq.RelativeUplift)},
		{"95% CI", fmt.Sprintf("[%s, %s]", percent(freq.CILower, 4, true), percent(freq.CIUpper, 4, true))},
		{"Z-statistic", fmt.Sprintf("%.4f", freq.ZStat)},
		{"p-value", fmt.Sprintf("%.4f", freq.PValue)},
		{"Significant", significant},
		{"P(Treatment > Control)", percent(bayes.ProbTreatmentBetter, 2, false)},
		{"Monthly Revenue Uplift", money(impact.MonthlyUplift)},
		{"Annual Revenue Uplift", money(impact.AnnualUplift)},
	}}
}

// CSV renders the summary as the downloadable two-column report.
func (s *Summary) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Metric", "Value"}); err != nil {
		return nil, err
	}
	for _, row := range s.Rows {
		if err := w.Write([]string{row.Metric, row.Value}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Markdown renders the summary as a report document.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# A/B Test Report\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Metric, row.Value)
	}
	return b.String()
}

// HTML renders the markdown report for the browser.
func (s *Summary) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(s.Markdown()))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.Render(doc, renderer)
}

// percent formats a fraction as a percentage with the given decimals,
// optionally with an explicit sign.
func percent(v float64, decimals int, signed bool) string {
	format := "%." + fmt.Sprint(decimals) + "f%%"
	if signed {
		format = "%+." + fmt.Sprint(decimals) + "f%%"
	}
	return fmt.Sprintf(format, v*100)
}

// money formats a signed dollar amount with thousands separators, rounded to
// whole dollars.
func money(v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	whole := int64(math.Round(math.Abs(v)))

	digits := fmt.Sprint(whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("$%s%s", sign, strings.Join(groups, ","))
}
