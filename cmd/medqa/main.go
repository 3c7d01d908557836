// Command medqa runs the data-quality pipeline for the clinical fine-tuning
// corpus: merging and validating training examples, scoring patient
// scenarios, evaluating hypothesis extractions, and generating fresh
// synthetic data.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	// .env carries GEMINI_API_KEY during local runs; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "medqa",
		Short: "Data quality pipeline for synthetic clinical corpora",
		Long: `medqa merges, validates, and scores synthetic clinical training data.

It validates hypothesis-extraction training examples against the fine-tuning
schema, scores patient scenarios for demo readiness, evaluates extracted
diagnoses against ground-truth labels, and generates new synthetic records
via Gemini.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPipelineCmd(),
		newEvalCmd(),
		newCompareCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("medqa version %s\n", version)
		},
	}
}
