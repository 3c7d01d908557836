// Package medqa is a data-quality toolkit for synthetic clinical corpora.
// It validates hypothesis-extraction training examples, scores patient
// scenarios for demo readiness, and evaluates extracted diagnoses against
// ground-truth labels with tiered semantic-similarity heuristics.
package medqa

import (
	language "cloud.google.com/go/language/apiv1"
	"google.golang.org/genai"

	"github.com/datar-psa/medqa/gemini"
)

// GeminiOptions configures Gemini-backed provider creation
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
	langClient  *language.Client
}

// WithGenaiClient sets the Gemini client used for generation
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the model used for generation
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// WithLanguageClient sets the Google Cloud Language client used for the
// moderation screen on generated clinical text
func WithLanguageClient(langClient *language.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.langClient = langClient
	}
}

// NewGeminiGenerator creates an LLMGenerator backed by Gemini.
// Example model: "gemini-2.5-flash". Returns nil if no client is configured.
func NewGeminiGenerator(opts ...func(*GeminiOptions)) LLMGenerator {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.genaiClient == nil || options.modelName == "" {
		return nil
	}
	return gemini.NewGenerator(options.genaiClient, options.modelName)
}

// NewGeminiModeration creates a ModerationProvider backed by the Google Cloud
// Natural Language API. Returns nil if no language client is configured.
func NewGeminiModeration(opts ...func(*GeminiOptions)) ModerationProvider {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.langClient == nil {
		return nil
	}
	return gemini.NewGoogleLanguageProvider(options.langClient)
}
