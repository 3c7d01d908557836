package hypothesis

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	medqa "github.com/datar-psa/medqa"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

func writeReport(t *testing.T, dir, name string, report any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := jsonenc.WriteFile(path, report); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func TestCompareModels(t *testing.T) {
	dir := t.TempDir()
	base := writeReport(t, dir, "base.json", Report{
		Model:   "gemma-3-4b",
		Metrics: map[string]any{"exact_accuracy": 0.5, "average_score": 0.6},
	})
	finetuned := writeReport(t, dir, "ft.json", Report{
		Model:   "gemma-3-4b-medqa",
		Metrics: map[string]any{"exact_accuracy": 0.75, "average_score": 0.8},
	})

	got, err := CompareModels(base, finetuned)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}

	if got.BaseModel.Name != "gemma-3-4b" || got.FineTunedModel.Name != "gemma-3-4b-medqa" {
		t.Errorf("CompareModels() models = %q/%q", got.BaseModel.Name, got.FineTunedModel.Name)
	}
	if math.Abs(got.Improvement.AccuracyDelta-0.25) > 1e-9 {
		t.Errorf("AccuracyDelta = %v, want 0.25", got.Improvement.AccuracyDelta)
	}
	if math.Abs(got.Improvement.ScoreDelta-0.2) > 1e-9 {
		t.Errorf("ScoreDelta = %v, want 0.2", got.Improvement.ScoreDelta)
	}
	if math.Abs(got.Improvement.AccuracyImprovementPct-50) > 1e-9 {
		t.Errorf("AccuracyImprovementPct = %v, want 50", got.Improvement.AccuracyImprovementPct)
	}
}

func TestCompareModelsZeroBaseline(t *testing.T) {
	dir := t.TempDir()
	base := writeReport(t, dir, "base.json", Report{
		Model:   "base",
		Metrics: map[string]any{"exact_accuracy": 0.0, "average_score": 0.1},
	})
	finetuned := writeReport(t, dir, "ft.json", Report{
		Model:   "ft",
		Metrics: map[string]any{"exact_accuracy": 0.4, "average_score": 0.5},
	})

	got, err := CompareModels(base, finetuned)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	if got.Improvement.AccuracyImprovementPct != 0 {
		t.Errorf("AccuracyImprovementPct = %v, want 0 for zero baseline", got.Improvement.AccuracyImprovementPct)
	}
	if math.Abs(got.Improvement.AccuracyDelta-0.4) > 1e-9 {
		t.Errorf("AccuracyDelta = %v, want 0.4", got.Improvement.AccuracyDelta)
	}
}

func TestCompareModelsMalformedReport(t *testing.T) {
	dir := t.TempDir()
	good := writeReport(t, dir, "good.json", Report{
		Model:   "ok",
		Metrics: map[string]any{"exact_accuracy": 0.5, "average_score": 0.5},
	})

	tests := []struct {
		name   string
		report any
	}{
		{"missing model", Report{Metrics: map[string]any{"exact_accuracy": 0.5, "average_score": 0.5}}},
		{"missing metrics", map[string]any{"model": "m"}},
		{"missing exact_accuracy", Report{Model: "m", Metrics: map[string]any{"average_score": 0.5}}},
		{"missing average_score", Report{Model: "m", Metrics: map[string]any{"exact_accuracy": 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := writeReport(t, dir, "bad.json", tt.report)

			if _, err := CompareModels(bad, good); !errors.Is(err, medqa.ErrMalformedReport) {
				t.Errorf("CompareModels() error = %v, want ErrMalformedReport", err)
			}
		})
	}
}

func TestCompareModelsMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeReport(t, dir, "good.json", Report{
		Model:   "ok",
		Metrics: map[string]any{"exact_accuracy": 0.5, "average_score": 0.5},
	})

	_, err := CompareModels(filepath.Join(dir, "absent.json"), good)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CompareModels() error = %v, want a not-exist error", err)
	}
}
