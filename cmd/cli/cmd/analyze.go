// Package cmd - analyze command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goab/adapters/excel"
	"goab/adapters/stats"
	"goab/app"
	"goab/domain/abtest"
	"goab/internal"
)

var (
	analyzeFile     string
	analyzeAlpha    float64
	analyzeSplit    float64
	analyzeAOV      float64
	analyzeVisitors int
	analyzeOut      string

	analyzeNControl      int
	analyzeConvControl   int
	analyzeNTreatment    int
	analyzeConvTreatment int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline over an experiment",
	Long: `Run the decision pipeline: SRM gate, two-proportion z-test,
Bayesian comparison, and revenue projection.

Inputs come either from a dataset file (--file, .csv or .xlsx with
group/converted columns) or from explicit counts.

Examples:
  goab analyze --file experiment.csv --visitors 100000
  goab analyze --n-control 5000 --conv-control 520 --n-treatment 5000 --conv-treatment 640 --aov 100 --visitors 100000
  goab analyze --file experiment.xlsx --out report.csv`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "dataset file (.csv or .xlsx)")
	analyzeCmd.Flags().Float64Var(&analyzeAlpha, "alpha", 0, "significance level (default from ENGINE_ALPHA)")
	analyzeCmd.Flags().Float64Var(&analyzeSplit, "split", 0, "expected control split (default from ENGINE_EXPECTED_SPLIT)")
	analyzeCmd.Flags().Float64Var(&analyzeAOV, "aov", 0, "average order value (default: computed from dataset revenue)")
	analyzeCmd.Flags().IntVar(&analyzeVisitors, "visitors", 100000, "projected monthly visitors")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write the summary as CSV to this path")

	analyzeCmd.Flags().IntVar(&analyzeNControl, "n-control", 0, "control group size")
	analyzeCmd.Flags().IntVar(&analyzeConvControl, "conv-control", 0, "control conversions")
	analyzeCmd.Flags().IntVar(&analyzeNTreatment, "n-treatment", 0, "treatment group size")
	analyzeCmd.Flags().IntVar(&analyzeConvTreatment, "conv-treatment", 0, "treatment conversions")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	control, treatment, aov, err := analyzeInputs()
	if err != nil {
		return err
	}

	logger := internal.NewDefaultLogger()
	service := app.NewAnalysisService(
		stats.NewSRMChecker(),
		stats.NewZTester(),
		stats.NewBayesianSampler(cfg.Engine.BayesSamples, stats.NewSeededRNG(cfg.Engine.BayesSeed)),
		stats.NewRevenueCalculator(),
		logger,
	)

	alpha := analyzeAlpha
	if alpha == 0 {
		alpha = cfg.Engine.Alpha
	}
	split := analyzeSplit
	if split == 0 {
		split = cfg.Engine.ExpectedSplit
	}

	res, err := service.Run(control, treatment, app.AnalysisParams{
		Alpha:           alpha,
		ExpectedSplit:   split,
		AvgOrderValue:   aov,
		MonthlyVisitors: analyzeVisitors,
	})
	if err != nil {
		if res != nil && res.SRM != nil {
			fmt.Printf("SRM DETECTED: %d vs %d against split %.2f (chi2=%.2f, p=%.6f)\n",
				res.SRM.NControl, res.SRM.NTreatment, res.SRM.ExpectedSplit,
				res.SRM.Chi2, res.SRM.PValue)
		}
		return err
	}

	printSummary(res)

	if analyzeOut != "" {
		raw, err := res.Summary.CSV()
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeOut, raw, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", analyzeOut)
	}
	return nil
}

// analyzeInputs resolves the two count sources: dataset file or explicit
// flags. The file wins when both are given.
func analyzeInputs() (control, treatment abtest.RateObservation, aov float64, err error) {
	aov = analyzeAOV

	if analyzeFile != "" {
		if _, statErr := os.Stat(analyzeFile); os.IsNotExist(statErr) {
			return control, treatment, 0, fmt.Errorf("dataset does not exist: %s", analyzeFile)
		}
		agg, readErr := excel.NewDataReader(analyzeFile).ReadAggregates()
		if readErr != nil {
			return control, treatment, 0, readErr
		}
		fmt.Printf("Loaded %d rows: control %d/%d, treatment %d/%d\n\n",
			agg.Rows,
			agg.Control.Successes, agg.Control.Trials,
			agg.Treatment.Successes, agg.Treatment.Trials)
		if aov == 0 {
			aov = agg.AvgOrderValue
		}
		return agg.Control, agg.Treatment, aov, nil
	}

	if analyzeNControl == 0 || analyzeNTreatment == 0 {
		return control, treatment, 0, fmt.Errorf("provide --file or explicit counts (--n-control, --n-treatment)")
	}
	control = abtest.RateObservation{Successes: analyzeConvControl, Trials: analyzeNControl}
	treatment = abtest.RateObservation{Successes: analyzeConvTreatment, Trials: analyzeNTreatment}
	return control, treatment, aov, nil
}

func printSummary(res *app.AnalysisResult) {
	fmt.Println("A/B TEST SUMMARY")
	fmt.Println("----------------------------------------------")
	for _, row := range res.Summary.Rows {
		fmt.Printf("%-24s %s\n", row.Metric, row.Value)
	}
}
