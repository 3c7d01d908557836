package main

import (
	"fmt"
	"os"
	"time"

	language "cloud.google.com/go/language/apiv1"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	medqa "github.com/datar-psa/medqa"
	"github.com/datar-psa/medqa/generate"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic records via Gemini",
	}

	cmd.PersistentFlags().String("model", "", "Gemini model for generation")
	cmd.PersistentFlags().String("output-dir", "", "Directory for generated files")
	cmd.PersistentFlags().Duration("pause", 2*time.Second, "Pause between LLM calls")
	cmd.PersistentFlags().Bool("moderate", false, "Screen generated clinical text via the Natural Language API")

	cmd.AddCommand(newGenerateTrainingCmd(), newGeneratePatientsCmd(), newGenerateFillCmd())
	return cmd
}

func newGenerateTrainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "training",
		Short: "Generate the hypothesis-extraction training corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := generateOptions(cmd)
			if err != nil {
				return err
			}
			total, err := generate.TrainingBatches(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d training examples -> %s\n", total, opts.OutDir)
			return nil
		},
	}
}

func newGeneratePatientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patients",
		Short: "Generate the demo patient scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := generateOptions(cmd)
			if err != nil {
				return err
			}
			written, err := generate.Patients(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d patient scenarios -> %s\n", written, opts.OutDir)
			return nil
		},
	}
}

func newGenerateFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <training-file>",
		Short: "Regenerate one batch and append it to an existing training file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := generateOptions(cmd)
			if err != nil {
				return err
			}
			batch, _ := cmd.Flags().GetInt("batch")
			total, err := generate.FillBatch(cmd.Context(), opts, batch, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Training file now holds %d examples\n", total)
			return nil
		},
	}
	cmd.Flags().Int("batch", 1, "Batch index to regenerate (0-based)")
	return cmd
}

// generateOptions wires the Gemini generator and optional moderation
// provider from flags, config, and GEMINI_API_KEY.
func generateOptions(cmd *cobra.Command) (generate.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return generate.Options{}, err
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return generate.Options{}, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	ctx := cmd.Context()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return generate.Options{}, fmt.Errorf("create genai client: %w", err)
	}

	opts := generate.Options{
		LLM:    medqa.NewGeminiGenerator(medqa.WithGenaiClient(client), medqa.WithModelName(cfg.Model)),
		OutDir: cfg.OutputDir,
	}
	opts.Pause, _ = cmd.Flags().GetDuration("pause")

	if moderate, _ := cmd.Flags().GetBool("moderate"); moderate {
		langClient, err := language.NewClient(ctx)
		if err != nil {
			return generate.Options{}, fmt.Errorf("create language client: %w", err)
		}
		opts.Moderation = medqa.NewGeminiModeration(medqa.WithLanguageClient(langClient))
	}
	return opts, nil
}
