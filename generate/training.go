// Package generate is the synthetic data generation glue around the
// validation engine: it prompts an LLM in JSON mode for training batches and
// patient scenarios, optionally screens generated clinical text through a
// moderation provider, and persists the results for the QA pipeline to
// consume. No retry or reliability engineering; a failed batch is logged and
// contributes nothing.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	medqa "github.com/datar-psa/medqa"
	"github.com/datar-psa/medqa/api"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

const (
	trainingFileName = "hypothesis_extraction_train.json"
	partialFileName  = "hypothesis_extraction_train_PARTIAL.json"

	defaultModerationThreshold = 0.5
)

// Options configures generation runs.
type Options struct {
	// LLM produces the synthetic records. Required.
	LLM api.LLMGenerator
	// Moderation, when set, screens generated clinical text; records whose
	// text is flagged above Threshold are dropped with a logged reason.
	Moderation api.ModerationProvider
	// Threshold is the moderation confidence above which content is unsafe.
	// Zero selects the default of 0.5.
	Threshold float64
	// OutDir receives the generated files.
	OutDir string
	// Pause between LLM calls, to stay under rate limits.
	Pause time.Duration
}

// trainingFile is the on-disk wrapper shape the generator emits.
type trainingFile struct {
	Examples []any `json:"examples"`
}

// TrainingBatches generates the full training corpus, one JSON-mode call per
// batch description. Partial progress is persisted after every batch so a
// crash loses at most one batch. Returns the number of examples generated.
func TrainingBatches(ctx context.Context, opts Options) (int, error) {
	if opts.LLM == nil {
		return 0, fmt.Errorf("LLM generator is required")
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	var all []any
	for i, batch := range trainingBatches {
		slog.Info("generating training batch", "batch", i+1, "total", len(trainingBatches), "category", batch)

		examples, err := generateBatch(ctx, opts, batch)
		if err != nil {
			slog.Warn("batch failed", "batch", i+1, "error", err)
		} else {
			all = append(all, examples...)
		}

		partialPath := filepath.Join(opts.OutDir, partialFileName)
		if err := jsonenc.WriteFile(partialPath, trainingFile{Examples: all}); err != nil {
			return len(all), fmt.Errorf("save partial progress: %w", err)
		}

		if opts.Pause > 0 && i < len(trainingBatches)-1 {
			time.Sleep(opts.Pause)
		}
	}

	finalPath := filepath.Join(opts.OutDir, trainingFileName)
	if err := jsonenc.WriteFile(finalPath, trainingFile{Examples: all}); err != nil {
		return len(all), fmt.Errorf("save training file: %w", err)
	}
	return len(all), nil
}

// FillBatch regenerates a single batch by index and appends the examples to
// an existing training file, tolerating both the wrapper shape and a plain
// array.
func FillBatch(ctx context.Context, opts Options, batchIndex int, path string) (int, error) {
	if opts.LLM == nil {
		return 0, fmt.Errorf("LLM generator is required")
	}
	if batchIndex < 0 || batchIndex >= len(trainingBatches) {
		return 0, fmt.Errorf("batch index %d out of range [0,%d)", batchIndex, len(trainingBatches))
	}

	examples, err := generateBatch(ctx, opts, trainingBatches[batchIndex])
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read training file: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("parse training file: %w", err)
	}

	var existing []any
	switch v := parsed.(type) {
	case map[string]any:
		existing, _ = v["examples"].([]any)
	case []any:
		existing = v
	}
	merged := append(existing, examples...)

	if err := jsonenc.WriteFile(path, trainingFile{Examples: merged}); err != nil {
		return 0, fmt.Errorf("save training file: %w", err)
	}
	return len(merged), nil
}

// generateBatch makes one JSON-mode call and normalizes the response to a
// list, wrapping a lone object.
func generateBatch(ctx context.Context, opts Options, batchDesc string) ([]any, error) {
	prompt := fmt.Sprintf(trainingPromptFormat, batchDesc)
	raw, err := opts.LLM.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", medqa.ErrGenerationFailed, err)
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	var examples []any
	switch v := parsed.(type) {
	case []any:
		examples = v
	default:
		slog.Warn("batch returned a single object, wrapping in list")
		examples = []any{v}
	}

	return screenExamples(ctx, opts, examples), nil
}

// screenExamples drops examples whose clinical note text fails the
// moderation screen. With no provider configured everything passes.
func screenExamples(ctx context.Context, opts Options, examples []any) []any {
	if opts.Moderation == nil {
		return examples
	}

	kept := make([]any, 0, len(examples))
	for _, raw := range examples {
		ex, ok := raw.(map[string]any)
		if !ok {
			kept = append(kept, raw)
			continue
		}
		text, _ := ex["input"].(string)
		if err := screenText(ctx, opts, text); err != nil {
			slog.Warn("dropping generated example", "reason", err)
			continue
		}
		kept = append(kept, raw)
	}
	return kept
}

// screenText moderates one piece of generated clinical text. The returned
// error wraps ErrUnsafeContent when a category exceeds the threshold.
func screenText(ctx context.Context, opts Options, text string) error {
	if opts.Moderation == nil || text == "" {
		return nil
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = defaultModerationThreshold
	}

	result, err := opts.Moderation.Moderate(ctx, text)
	if err != nil {
		return fmt.Errorf("moderation screen: %w", err)
	}
	for _, c := range result.Categories {
		// Health content is expected in clinical notes; screening it out
		// would reject the entire corpus.
		if c.Name == "Health" {
			continue
		}
		if c.Confidence > threshold {
			return fmt.Errorf("%w: %s %.2f", medqa.ErrUnsafeContent, c.Name, c.Confidence)
		}
	}
	return nil
}
