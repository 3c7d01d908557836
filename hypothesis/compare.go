package hypothesis

import (
	"encoding/json"
	"fmt"
	"os"

	medqa "github.com/datar-psa/medqa"
)

// ModelSummary is one side of a model comparison.
type ModelSummary struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
	AvgScore float64 `json:"avg_score"`
}

// Improvement captures fine-tuned minus base deltas.
type Improvement struct {
	AccuracyDelta float64 `json:"accuracy_delta"`
	ScoreDelta    float64 `json:"score_delta"`
	// AccuracyImprovementPct is 0 when the baseline accuracy is 0; a zero
	// baseline is reported, not raised.
	AccuracyImprovementPct float64 `json:"accuracy_improvement_pct"`
}

// Comparison is the result of comparing two persisted evaluation reports.
type Comparison struct {
	BaseModel      ModelSummary `json:"base_model"`
	FineTunedModel ModelSummary `json:"fine_tuned_model"`
	Improvement    Improvement  `json:"improvement"`
}

// CompareModels loads two previously persisted per-model reports and computes
// performance deltas. A report missing its expected keys is a misconfigured
// pipeline, not bad data, so it fails the comparison outright.
func CompareModels(baseResultsPath, finetunedResultsPath string) (Comparison, error) {
	base, err := loadSummary(baseResultsPath)
	if err != nil {
		return Comparison{}, err
	}
	finetuned, err := loadSummary(finetunedResultsPath)
	if err != nil {
		return Comparison{}, err
	}

	improvement := Improvement{
		AccuracyDelta: finetuned.Accuracy - base.Accuracy,
		ScoreDelta:    finetuned.AvgScore - base.AvgScore,
	}
	if base.Accuracy > 0 {
		improvement.AccuracyImprovementPct = (finetuned.Accuracy - base.Accuracy) / base.Accuracy * 100
	}

	return Comparison{
		BaseModel:      base,
		FineTunedModel: finetuned,
		Improvement:    improvement,
	}, nil
}

func loadSummary(path string) (ModelSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelSummary{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return ModelSummary{}, fmt.Errorf("parse report %s: %w", path, err)
	}

	if report.Model == "" || report.Metrics == nil {
		return ModelSummary{}, fmt.Errorf("%w: %s", medqa.ErrMalformedReport, path)
	}
	accuracy, ok := numericMetric(report.Metrics, "exact_accuracy")
	if !ok {
		return ModelSummary{}, fmt.Errorf("%w: %s lacks exact_accuracy", medqa.ErrMalformedReport, path)
	}
	avgScore, ok := numericMetric(report.Metrics, "average_score")
	if !ok {
		return ModelSummary{}, fmt.Errorf("%w: %s lacks average_score", medqa.ErrMalformedReport, path)
	}

	return ModelSummary{Name: report.Model, Accuracy: accuracy, AvgScore: avgScore}, nil
}

func numericMetric(metrics map[string]any, key string) (float64, bool) {
	v, ok := metrics[key].(float64)
	return v, ok
}
