// Package cmd - power command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"goab/adapters/stats"
	"goab/domain/abtest"
)

var (
	powerBaseline float64
	powerMDE      float64
	powerAlpha    float64
	powerTarget   float64
)

// powerCmd represents the power command
var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Calculate the required sample size for an experiment",
	Long: `Calculate the per-group sample size needed to detect a minimum
absolute effect at the requested significance and power.

Examples:
  goab power --baseline 0.10 --mde 0.02
  goab power --baseline 0.104 --mde 0.023 --alpha 0.01 --power 0.9`,
	RunE: runPower,
}

func init() {
	powerCmd.Flags().Float64VarP(&powerBaseline, "baseline", "b", 0, "baseline conversion rate (required)")
	powerCmd.Flags().Float64VarP(&powerMDE, "mde", "m", 0, "minimum detectable effect, absolute and signed (required)")
	powerCmd.Flags().Float64Var(&powerAlpha, "alpha", 0, "significance level (default from ENGINE_ALPHA)")
	powerCmd.Flags().Float64Var(&powerTarget, "power", 0, "target power (default from ENGINE_POWER)")
	powerCmd.MarkFlagRequired("baseline")
	powerCmd.MarkFlagRequired("mde")
}

func runPower(cmd *cobra.Command, args []string) error {
	alpha := powerAlpha
	if alpha == 0 {
		alpha = cfg.Engine.Alpha
	}
	target := powerTarget
	if target == 0 {
		target = cfg.Engine.Power
	}

	res, err := stats.NewPowerCalculator().CalculateSampleSize(abtest.PowerSpec{
		BaselineRate: powerBaseline,
		MDE:          powerMDE,
		Alpha:        alpha,
		Power:        target,
	})
	if err != nil {
		return err
	}

	fmt.Println("POWER ANALYSIS")
	fmt.Println("----------------------------------------------")
	fmt.Printf("%-24s %.4f\n", "Baseline rate", res.BaselineRate)
	fmt.Printf("%-24s %.4f\n", "Treatment rate", res.TreatmentRate)
	fmt.Printf("%-24s %+.4f (%+.2f%% relative)\n", "MDE", res.MDE, res.RelativeMDE)
	fmt.Printf("%-24s %.4f\n", "Effect size (Cohen's h)", res.EffectSize)
	fmt.Printf("%-24s %.2f / %.2f\n", "Alpha / power", res.Alpha, res.Power)
	fmt.Printf("%-24s %d\n", "N per group", res.NPerGroup)
	fmt.Printf("%-24s %d\n", "N total", res.NTotal)
	return nil
}
