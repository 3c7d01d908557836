package api

import "context"

// Status classifies a record after validation or scoring.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusReject  Status = "REJECT"
)

// VerdictRecord is the result of validating one training example.
// Issues are accumulated human-readable findings; schema deviations are
// never surfaced as errors.
type VerdictRecord struct {
	Index  int      `json:"idx"`
	Status Status   `json:"status"`
	Issues []string `json:"issues"`
}

// ScoreCard is the result of evaluating one patient scenario.
// Score starts at 100 and is decremented per violated rule, clamped to [0,100].
// The source scenario is never mutated.
type ScoreCard struct {
	Index    int      `json:"idx"`
	ID       string   `json:"id"`
	Status   Status   `json:"status"`
	Score    int      `json:"score"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// EvaluationMetric is the result of comparing one extracted hypothesis
// against its ground-truth label.
type EvaluationMetric struct {
	ExampleID           int     `json:"example_id"`
	ExpectedHypothesis  string  `json:"expected_hypothesis"`
	ExtractedHypothesis string  `json:"extracted_hypothesis"`
	IsCorrect           bool    `json:"is_correct"`
	PartialCredit       float64 `json:"partial_credit"`
	Notes               string  `json:"notes"`
}

// LLMGenerator is an interface for generating text using an LLM.
// A Gemini implementation is provided in the gemini subpackage.
type LLMGenerator interface {
	// Generate produces free-form text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateJSON produces a response constrained to JSON output.
	// The returned string is the raw JSON text from the model.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ModerationCategory represents a safety category with confidence score.
type ModerationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ModerationResult represents the result of content moderation.
type ModerationResult struct {
	Categories []ModerationCategory `json:"categories"`
}

// ModerationProvider screens generated clinical text for unsafe content.
// A Google Cloud Natural Language implementation is provided in the gemini
// subpackage.
type ModerationProvider interface {
	Moderate(ctx context.Context, content string) (*ModerationResult, error)
}
