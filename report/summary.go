// Package report rolls per-record verdicts into corpus-level statistics and
// renders the console quality reports. Aggregation is kept separate from
// rendering so the numbers are unit-testable.
package report

import (
	"sort"

	"github.com/datar-psa/medqa/api"
)

// ValidationSummary is the corpus-level view of training validation results.
type ValidationSummary struct {
	Total  int
	Passed []api.VerdictRecord
	Warned []api.VerdictRecord
	Failed []api.VerdictRecord
	// PassRate is a percentage; 0 for an empty corpus.
	PassRate float64
}

// SummarizeValidation tallies verdicts by status.
func SummarizeValidation(results []api.VerdictRecord) ValidationSummary {
	s := ValidationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case api.StatusPass:
			s.Passed = append(s.Passed, r)
		case api.StatusWarning:
			s.Warned = append(s.Warned, r)
		case api.StatusReject:
			s.Failed = append(s.Failed, r)
		}
	}
	if s.Total > 0 {
		s.PassRate = float64(len(s.Passed)) / float64(s.Total) * 100
	}
	return s
}

// urgencyBuckets is the fixed display order of the urgency histogram.
var urgencyBuckets = []string{"high", "medium", "low", "unknown"}

// UrgencyCount is one bar of the urgency histogram.
type UrgencyCount struct {
	Urgency string
	Count   int
}

// UrgencyHistogram buckets every record by output.urgency. Records that are
// not mappings, or whose urgency is missing or not one of low/medium/high,
// land in the "unknown" bucket so the four buckets always sum to the corpus
// size.
func UrgencyHistogram(records []any) []UrgencyCount {
	counts := map[string]int{}
	for _, record := range records {
		counts[recordUrgency(record)]++
	}

	hist := make([]UrgencyCount, 0, len(urgencyBuckets))
	for _, u := range urgencyBuckets {
		hist = append(hist, UrgencyCount{Urgency: u, Count: counts[u]})
	}
	return hist
}

func recordUrgency(record any) string {
	ex, ok := record.(map[string]any)
	if !ok {
		return "unknown"
	}
	out, ok := ex["output"].(map[string]any)
	if !ok {
		return "unknown"
	}
	u, _ := out["urgency"].(string)
	switch u {
	case "high", "medium", "low":
		return u
	}
	return "unknown"
}

// ScenarioSummary is the corpus-level view of patient scenario evaluation.
type ScenarioSummary struct {
	Total    int
	Passed   int
	Warned   int
	Failed   int
	AvgScore float64
	// Ranked holds the score cards sorted descending by score.
	Ranked []api.ScoreCard
}

// SummarizeScenarios tallies score cards and ranks them by score.
func SummarizeScenarios(cards []api.ScoreCard) ScenarioSummary {
	s := ScenarioSummary{Total: len(cards)}
	scoreSum := 0
	for _, c := range cards {
		switch c.Status {
		case api.StatusPass:
			s.Passed++
		case api.StatusWarning:
			s.Warned++
		case api.StatusReject:
			s.Failed++
		}
		scoreSum += c.Score
	}
	if s.Total > 0 {
		s.AvgScore = float64(scoreSum) / float64(s.Total)
	}

	s.Ranked = append(s.Ranked, cards...)
	sort.SliceStable(s.Ranked, func(i, j int) bool {
		return s.Ranked[i].Score > s.Ranked[j].Score
	})
	return s
}

// DemoReadiness counts scenarios carrying the narrative fields the demo
// depends on.
type DemoReadiness struct {
	Total         int
	PendingOrders int
	AIFlags       int
	FailureModes  int
}

// SummarizeReadiness counts demo-critical fields across raw scenarios.
func SummarizeReadiness(records []any) DemoReadiness {
	r := DemoReadiness{Total: len(records)}
	for _, record := range records {
		p, ok := record.(map[string]any)
		if !ok {
			continue
		}
		if hasPendingOrder(p) {
			r.PendingOrders++
		}
		if flags, _ := p["ai_should_flag"].([]any); len(flags) > 0 {
			r.AIFlags++
		}
		if fm, _ := p["failure_mode"].(string); fm != "" {
			r.FailureModes++
		}
	}
	return r
}

func hasPendingOrder(p map[string]any) bool {
	orders, _ := p["orders"].([]any)
	for _, raw := range orders {
		if o, ok := raw.(map[string]any); ok {
			if s, _ := o["status"].(string); s == "pending" {
				return true
			}
		}
	}
	return false
}

// Band is a qualitative readiness bucket.
type Band int

const (
	BandReady Band = iota
	BandBelowTarget
	BandCritical
)

// PassRateBand bands a training-corpus pass rate (a percentage) against the
// fine-tuning quality thresholds.
func PassRateBand(passRate float64) Band {
	switch {
	case passRate >= 85:
		return BandReady
	case passRate >= 70:
		return BandBelowTarget
	default:
		return BandCritical
	}
}

// ReadinessBand bands the scenario corpus on average score and the presence
// of any rejected scenario.
func ReadinessBand(avgScore float64, failed int) Band {
	switch {
	case avgScore >= 80 && failed == 0:
		return BandReady
	case avgScore >= 60:
		return BandBelowTarget
	default:
		return BandCritical
	}
}
