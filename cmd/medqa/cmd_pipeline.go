package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datar-psa/medqa/corpus"
	"github.com/datar-psa/medqa/report"
	"github.com/datar-psa/medqa/scenario"
	"github.com/datar-psa/medqa/validate"
)

const (
	mergedFileName = "training_merged.json"
	cleanFileName  = "training_clean.json"
)

func newPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Merge and validate training data, then evaluate patient scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			skipTraining, _ := cmd.Flags().GetBool("skip-training")
			skipPatients, _ := cmd.Flags().GetBool("skip-patients")

			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			r := report.NewRenderer(cmd.OutOrStdout())

			if !skipTraining {
				if err := runTraining(cfg, r); err != nil {
					return err
				}
			}
			if !skipPatients {
				if err := runPatients(cfg, r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("training-dir", "", "Directory containing training JSON files")
	cmd.Flags().String("patients-file", "", "Path to patient scenarios JSON file")
	cmd.Flags().String("output-dir", "", "Directory for output files")
	cmd.Flags().Int("workers", 0, "Evaluation workers (0 = one per CPU)")
	cmd.Flags().Bool("skip-training", false, "Skip training data processing")
	cmd.Flags().Bool("skip-patients", false, "Skip patient scenario evaluation")
	return cmd
}

func runTraining(cfg Config, r *report.Renderer) error {
	if _, err := os.Stat(cfg.TrainingDir); err != nil {
		return fmt.Errorf("training directory not found: %s", cfg.TrainingDir)
	}

	examples, files, err := corpus.MergeDir(cfg.TrainingDir)
	if err != nil {
		return err
	}
	r.MergeSummary(files, len(examples))
	if len(examples) == 0 {
		return fmt.Errorf("no training examples found in %s", cfg.TrainingDir)
	}

	mergedPath := filepath.Join(cfg.OutputDir, mergedFileName)
	if err := corpus.SaveMerged(mergedPath, examples); err != nil {
		return fmt.Errorf("save merged corpus: %w", err)
	}

	verdicts := validate.All(examples, cfg.Workers)
	r.ValidationReport(report.SummarizeValidation(verdicts), report.UrgencyHistogram(examples))

	cleanPath := filepath.Join(cfg.OutputDir, cleanFileName)
	kept, removed, err := corpus.SaveClean(cleanPath, examples, verdicts)
	if err != nil {
		return fmt.Errorf("save clean corpus: %w", err)
	}
	r.CleanSaveSummary(cleanPath, kept, removed)
	return nil
}

func runPatients(cfg Config, r *report.Renderer) error {
	patients, err := corpus.LoadScenarios(cfg.PatientsFile)
	if err != nil {
		return err
	}

	cards := scenario.All(patients, cfg.Workers)
	r.ScenarioReport(report.SummarizeScenarios(cards), report.SummarizeReadiness(patients))
	return nil
}
