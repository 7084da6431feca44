package main

import (
	"github.com/spf13/cobra"

	"github.com/verdantbooks/receiptor/internal/api"
	"github.com/verdantbooks/receiptor/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "receiptor",
	Short: "Receipt extraction pipeline for landscaping bookkeeping",
	Long: `Receiptor turns photographed receipts into structured bookkeeping
records using OCR and LLM-assisted structuring.

The pipeline includes:
  - Image normalization (rotate, resize, grayscale, sharpen)
  - Tesseract transcript extraction with automatic language assets
  - LLM structuring with schema validation and numeric coercion
  - Expense categorization tuned for landscaping businesses`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.receiptor/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
