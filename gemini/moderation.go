package gemini

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"

	"github.com/datar-psa/medqa/api"
)

// GoogleLanguageProvider implements ModerationProvider using the Google Cloud
// Natural Language API. It screens generated clinical narratives before they
// are admitted to the corpus.
type GoogleLanguageProvider struct {
	client *language.Client
}

// NewGoogleLanguageProvider creates a new provider using a preconfigured
// *language.Client (auth handled by caller)
func NewGoogleLanguageProvider(client *language.Client) *GoogleLanguageProvider {
	return &GoogleLanguageProvider{client: client}
}

// Moderate analyzes content for safety using the Natural Language API.
// Category names are normalized to the identifier form the generation glue
// filters on.
func (p *GoogleLanguageProvider) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("language client is required")
	}

	req := &languagepb.ModerateTextRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: content,
			},
		},
	}

	resp, err := p.client.ModerateText(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("moderate text failed: %w", err)
	}

	categories := make([]api.ModerationCategory, 0, len(resp.ModerationCategories))
	for _, c := range resp.ModerationCategories {
		categories = append(categories, api.ModerationCategory{
			Name:       normalizeCategory(c.Name),
			Confidence: float64(c.Confidence),
		})
	}

	return &api.ModerationResult{Categories: categories}, nil
}

// categoryNames maps the API's display names to identifier form. Unlisted
// categories pass through unchanged.
var categoryNames = map[string]string{
	"Death, Harm & Tragedy": "DeathHarmTragedy",
	"Firearms & Weapons":    "FirearmsWeapons",
	"Public Safety":         "PublicSafety",
	"Religion & Belief":     "ReligionBelief",
	"Illicit Drugs":         "IllicitDrugs",
	"War & Conflict":        "WarConflict",
}

func normalizeCategory(name string) string {
	if mapped, ok := categoryNames[name]; ok {
		return mapped
	}
	return name
}

// Verify that GoogleLanguageProvider implements ModerationProvider
var _ api.ModerationProvider = (*GoogleLanguageProvider)(nil)
