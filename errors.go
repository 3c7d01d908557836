package medqa

import "errors"

var (
	// ErrMalformedReport is returned when a persisted evaluation report is
	// missing required keys. This indicates a misconfigured pipeline, not bad
	// data, and is allowed to propagate as fatal.
	ErrMalformedReport = errors.New("evaluation report is missing required keys")
	// ErrGenerationFailed is returned when LLM generation fails
	ErrGenerationFailed = errors.New("LLM generation failed")
	// ErrUnsafeContent is returned when the moderation screen flags generated content
	ErrUnsafeContent = errors.New("generated content flagged by moderation screen")
)
