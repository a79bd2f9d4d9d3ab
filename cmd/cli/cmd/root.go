// Package cmd provides the CLI commands for goab.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goab/internal/config"
)

var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "goab",
	Short: "A/B test statistics engine",
	Long: `goab analyzes conversion experiments from the command line.

It runs the full decision pipeline over per-group conversion counts:
sample ratio check, frequentist z-test, Bayesian beta-binomial
comparison, and a revenue projection.

Examples:
  goab power --baseline 0.10 --mde 0.02
  goab analyze --file experiment.csv --aov 100 --visitors 100000
  goab generate --out dataset.csv`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// .env is optional; system environment wins.
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("goab version 0.1.0")
	},
}
