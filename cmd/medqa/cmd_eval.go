package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datar-psa/medqa/hypothesis"
)

// extraction is one row of the predictions file produced by a model test run.
type extraction struct {
	ExampleID int    `json:"example_id"`
	Expected  string `json:"expected"`
	Extracted string `json:"extracted"`
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate extracted hypotheses against ground-truth labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			predictionsPath, _ := cmd.Flags().GetString("predictions")
			outPath, _ := cmd.Flags().GetString("out")
			model, _ := cmd.Flags().GetString("model")

			data, err := os.ReadFile(predictionsPath)
			if err != nil {
				return fmt.Errorf("read predictions: %w", err)
			}
			var extractions []extraction
			if err := json.Unmarshal(data, &extractions); err != nil {
				return fmt.Errorf("parse predictions: %w", err)
			}

			evaluator := hypothesis.NewEvaluator()
			for _, e := range extractions {
				evaluator.AddResult(evaluator.EvaluateExtraction(e.ExampleID, e.Expected, e.Extracted))
			}

			metrics, err := json.MarshalIndent(evaluator.ComputeMetrics(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evaluated %d extractions for %s\n%s\n", len(extractions), model, metrics)

			if outPath != "" {
				if err := evaluator.SaveReport(outPath, model); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved -> %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("predictions", "", "JSON file of {example_id, expected, extracted} rows")
	cmd.Flags().String("out", "", "Path for the persisted evaluation report")
	cmd.Flags().String("model", "", "Model name recorded in the report")
	_ = cmd.MarkFlagRequired("predictions")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <base-report> <finetuned-report>",
		Short: "Compare base vs fine-tuned model evaluation reports",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison, err := hypothesis.CompareModels(args[0], args[1])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(comparison, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
