package hypothesis

import (
	"time"

	"github.com/google/uuid"

	"github.com/datar-psa/medqa/internal/jsonenc"
)

// partialCreditFloor is the credit at or above which an extraction counts as
// partially correct in the aggregate metrics.
const partialCreditFloor = 0.7

// Report is a persisted evaluation run for one model.
type Report struct {
	Model           string           `json:"model"`
	RunID           string           `json:"run_id"`
	EvaluationDate  string           `json:"evaluation_date"`
	Metrics         map[string]any   `json:"metrics"`
	DetailedResults []DetailedResult `json:"detailed_results"`
}

// DetailedResult is one row of a persisted report.
type DetailedResult struct {
	ExampleID int     `json:"example_id"`
	Expected  string  `json:"expected"`
	Extracted string  `json:"extracted"`
	Correct   bool    `json:"correct"`
	Score     float64 `json:"score"`
	Notes     string  `json:"notes"`
}

// ComputeMetrics derives aggregate metrics from the accumulated results.
// An empty session yields an empty map, never an error; rates are computed
// against the accumulated count so division by zero cannot occur.
func (e *Evaluator) ComputeMetrics() map[string]any {
	metrics := map[string]any{}
	if len(e.results) == 0 {
		return metrics
	}

	total := len(e.results)
	correct := 0
	partialCorrect := 0
	creditSum := 0.0
	for _, r := range e.results {
		if r.IsCorrect {
			correct++
		}
		if r.PartialCredit >= partialCreditFloor {
			partialCorrect++
		}
		creditSum += r.PartialCredit
	}

	metrics["total_examples"] = total
	metrics["exact_correct"] = correct
	metrics["exact_accuracy"] = float64(correct) / float64(total)
	metrics["partial_correct"] = partialCorrect
	metrics["partial_accuracy"] = float64(partialCorrect) / float64(total)
	metrics["average_score"] = creditSum / float64(total)
	return metrics
}

// GenerateReport builds the full evaluation report for a model.
func (e *Evaluator) GenerateReport(modelName string) Report {
	detailed := make([]DetailedResult, 0, len(e.results))
	for _, r := range e.results {
		detailed = append(detailed, DetailedResult{
			ExampleID: r.ExampleID,
			Expected:  r.ExpectedHypothesis,
			Extracted: r.ExtractedHypothesis,
			Correct:   r.IsCorrect,
			Score:     r.PartialCredit,
			Notes:     r.Notes,
		})
	}

	return Report{
		Model:           modelName,
		RunID:           uuid.NewString(),
		EvaluationDate:  time.Now().Format(time.RFC3339),
		Metrics:         e.ComputeMetrics(),
		DetailedResults: detailed,
	}
}

// SaveReport persists the evaluation report as indented JSON.
func (e *Evaluator) SaveReport(path, modelName string) error {
	return jsonenc.WriteFile(path, e.GenerateReport(modelName))
}
