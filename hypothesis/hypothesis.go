// Package hypothesis evaluates extracted diagnostic hypotheses against
// ground-truth labels using tiered semantic-similarity heuristics. Tiers are
// an ordered waterfall: exact match, medical synonym, disease category, then
// lexical overlap; the first matching tier wins and later tiers are never
// consulted.
package hypothesis

import (
	"fmt"
	"strings"

	"github.com/datar-psa/medqa/api"
)

// synonymEntry maps a canonical medical term to accepted variant phrasings.
// Both the expected and extracted strings must resolve to the same entry for
// a synonym match.
type synonymEntry struct {
	canonical string
	variants  []string
}

// synonyms is a fixed table; entries are disjoint and evaluated in order.
var synonyms = []synonymEntry{
	{"colon cancer", []string{"colorectal cancer", "colonic malignancy", "bowel cancer"}},
	{"pneumonia", []string{"lung infection", "pulmonary infection", "cap"}},
	{"myocardial infarction", []string{"heart attack", "mi", "acute mi"}},
	{"pulmonary embolism", []string{"pe", "lung clot"}},
	{"sepsis", []string{"severe infection", "septic shock"}},
}

// categoryBucket classifies a hypothesis by keyword containment. Buckets are
// checked in order and the first hit wins, so cancer terms shadow infection
// terms and so on. Containment is deliberately not word-boundary anchored;
// anchoring would change scoring output for existing corpora.
type categoryBucket struct {
	name     string
	keywords []string
}

var categories = []categoryBucket{
	{"cancer", []string{"cancer", "malignancy", "tumor", "carcinoma", "lymphoma", "leukemia"}},
	{"infection", []string{"infection", "sepsis", "pneumonia", "meningitis"}},
	{"cardiac", []string{"infarction", "heart attack", "mi", "ischemia"}},
}

const (
	creditExact      = 1.0
	creditSynonym    = 0.9
	creditCategory   = 0.7
	creditOverlapCap = 0.5
)

// Evaluator accumulates per-example evaluation metrics for one session.
// Aggregates are derived views over the accumulated list, recomputed on
// demand; nothing is cached.
type Evaluator struct {
	results []api.EvaluationMetric
}

// NewEvaluator creates an empty evaluation session.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// EvaluateExtraction scores a single extraction against its expected label.
// Comparison is case-insensitive and whitespace-trimmed. The returned
// metric's Notes records which tier matched, for audit.
func (e *Evaluator) EvaluateExtraction(exampleID int, expected, extracted string) api.EvaluationMetric {
	metric := api.EvaluationMetric{
		ExampleID:           exampleID,
		ExpectedHypothesis:  expected,
		ExtractedHypothesis: extracted,
	}

	expectedNorm := normalize(expected)
	extractedNorm := normalize(extracted)

	if expectedNorm == extractedNorm {
		metric.IsCorrect = true
		metric.PartialCredit = creditExact
		metric.Notes = "Exact match"
		return metric
	}

	for _, entry := range synonyms {
		if entry.resolves(expectedNorm) && entry.resolves(extractedNorm) {
			metric.IsCorrect = true
			metric.PartialCredit = creditSynonym
			metric.Notes = "Synonym match"
			return metric
		}
	}

	expectedCat := category(expectedNorm)
	if expectedCat != "other" && expectedCat == category(extractedNorm) {
		metric.PartialCredit = creditCategory
		metric.Notes = fmt.Sprintf("Same category (%s) but different specificity", expectedCat)
		return metric
	}

	if overlap, jaccard := wordOverlap(expectedNorm, extractedNorm); overlap > 0 {
		metric.PartialCredit = min(jaccard, creditOverlapCap)
		metric.Notes = fmt.Sprintf("Partial overlap (%d words)", overlap)
		return metric
	}

	metric.Notes = "No match"
	return metric
}

// AddResult appends a metric to the session in arrival order.
func (e *Evaluator) AddResult(metric api.EvaluationMetric) {
	e.results = append(e.results, metric)
}

// Results returns the accumulated metrics in arrival order.
func (e *Evaluator) Results() []api.EvaluationMetric {
	return e.results
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s synonymEntry) resolves(term string) bool {
	if term == s.canonical {
		return true
	}
	for _, v := range s.variants {
		if term == v {
			return true
		}
	}
	return false
}

func category(term string) string {
	for _, bucket := range categories {
		for _, kw := range bucket.keywords {
			if strings.Contains(term, kw) {
				return bucket.name
			}
		}
	}
	return "other"
}

// wordOverlap tokenizes both strings on whitespace into word sets and returns
// the intersection size and the Jaccard index.
func wordOverlap(a, b string) (int, float64) {
	aWords := wordSet(a)
	bWords := wordSet(b)

	intersection := 0
	for w := range aWords {
		if bWords[w] {
			intersection++
		}
	}
	if intersection == 0 {
		return 0, 0
	}
	union := len(aWords) + len(bWords) - intersection
	return intersection, float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
