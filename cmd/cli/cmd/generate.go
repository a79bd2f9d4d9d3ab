// Package cmd - generate command
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goab/internal/datagen"
)

var (
	genUsers         int
	genControlRate   float64
	genTreatmentRate float64
	genDays          int
	genSeed          int64
	genOut           string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic e-commerce experiment dataset",
	Long: `Generate a seeded synthetic dataset of one row per visitor, suitable
for exercising the analyze pipeline end to end. The output format follows
the file extension (.csv or .xlsx).

Examples:
  goab generate --out dataset.csv
  goab generate --users 10000 --control-rate 0.10 --treatment-rate 0.12 --out small.xlsx`,
	RunE: runGenerate,
}

func init() {
	defaults := datagen.DefaultConfig()
	generateCmd.Flags().IntVar(&genUsers, "users", defaults.Users, "total visitors")
	generateCmd.Flags().Float64Var(&genControlRate, "control-rate", defaults.ControlRate, "control conversion rate")
	generateCmd.Flags().Float64Var(&genTreatmentRate, "treatment-rate", defaults.TreatmentRate, "treatment conversion rate")
	generateCmd.Flags().IntVar(&genDays, "days", defaults.Days, "experiment duration in days")
	generateCmd.Flags().Int64Var(&genSeed, "seed", defaults.Seed, "random seed")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "dataset.csv", "output path (.csv or .xlsx)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genCfg := datagen.DefaultConfig()
	genCfg.Users = genUsers
	genCfg.ControlRate = genControlRate
	genCfg.TreatmentRate = genTreatmentRate
	genCfg.Days = genDays
	genCfg.Seed = genSeed

	ds, err := datagen.Generate(genCfg)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(genOut)) {
	case ".csv":
		err = datagen.WriteCSV(genOut, ds)
	case ".xlsx":
		err = datagen.WriteXLSX(genOut, ds)
	default:
		return fmt.Errorf("output must be .csv or .xlsx: %s", genOut)
	}
	if err != nil {
		return err
	}

	control, treatment := ds.Counts()
	fmt.Printf("Wrote %d rows to %s\n", len(ds.Rows), genOut)
	fmt.Printf("Control:   %d/%d (%.4f)\n", control.Successes, control.Trials, control.Rate())
	fmt.Printf("Treatment: %d/%d (%.4f)\n", treatment.Successes, treatment.Trials, treatment.Rate())
	return nil
}
