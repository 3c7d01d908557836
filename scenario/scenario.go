// Package scenario scores synthetic patient scenarios for demo readiness.
// Scoring is a deduction model: every scenario starts at 100 and loses a
// fixed penalty per violated rule, clamped to [0,100]. Rules are evaluated in
// a fixed order so deduction totals are reproducible and auditable.
package scenario

import (
	"fmt"
	"strings"

	"github.com/datar-psa/medqa/api"
	"github.com/datar-psa/medqa/internal/fanout"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

// requiredFields are the top-level fields every scenario must carry.
var requiredFields = []string{
	"patient_id", "demographics", "visit_date",
	"clinical_note", "orders", "results",
	"diagnostic_hypothesis", "ground_truth_diagnosis", "failure_mode",
}

// soapKeywords mark a clinical note as SOAP-structured. Matching is plain
// substring containment over the note text.
var soapKeywords = []string{
	"SUBJECTIVE", "OBJECTIVE", "ASSESSMENT", "PLAN",
	"S:", "O:", "A:", "P:", "Subjective", "Objective",
}

// artifactTokens indicate corrupted model generation in the serialized scenario.
var artifactTokens = []string{"<unused", "thought\n"}

const (
	noteMin        = 200
	failureModeMin = 30
	rejectBelow    = 40
)

// deductions, in rule order
const (
	penaltyMissingField   = 15
	penaltyMissingAge     = 5
	penaltyBadAge         = 10
	penaltyBadSex         = 5
	penaltyShortNote      = 10
	penaltyNoSOAP         = 5
	penaltyNoOrders       = 10
	penaltyNoOpenLoop     = 10
	penaltyOrderDetail    = 3
	penaltyNoResults      = 10
	penaltyResultDetail   = 3
	penaltyNoHypothesis   = 10
	penaltyNoReasoning    = 5
	penaltyShortFailure   = 15
	penaltyFewFlags       = 8
	penaltyUniformPending = 5
	penaltyArtifact       = 20
)

// Evaluate scores a single patient scenario. The scenario itself is never
// mutated; all findings land on the returned ScoreCard.
func Evaluate(record any, index int) api.ScoreCard {
	var issues, warnings []string
	score := 100

	p, ok := record.(map[string]any)
	if !ok {
		return api.ScoreCard{
			Index: index, ID: "?", Status: api.StatusReject,
			Score: 0, Issues: []string{"Not a dict"}, Warnings: []string{},
		}
	}

	pid := patientID(p, index)

	for _, field := range requiredFields {
		if _, present := p[field]; !present {
			issues = append(issues, fmt.Sprintf("Missing: '%s'", field))
			score -= penaltyMissingField
		}
	}

	// Demographics. A non-mapping value skips these checks entirely; the
	// missing-field deduction above already covers the absent case.
	if demo, isMap := mapField(p, "demographics"); isMap {
		switch age := demo["age"].(type) {
		case nil:
			issues = append(issues, "Missing demographics.age")
			score -= penaltyMissingAge
		case float64:
			if age < 0 || age > 120 {
				issues = append(issues, fmt.Sprintf("Unrealistic age: %v", age))
				score -= penaltyBadAge
			}
		default:
			issues = append(issues, fmt.Sprintf("Unrealistic age: %v", age))
			score -= penaltyBadAge
		}

		// Absent sex is tolerated; only a present non-M/F/null value is flagged.
		if sex, present := demo["sex"]; present {
			if s, isStr := sex.(string); sex != nil && (!isStr || (s != "M" && s != "F")) {
				issues = append(issues, fmt.Sprintf("Invalid sex value: %v", sex))
				score -= penaltyBadSex
			}
		}
	}

	if note, isMap := mapField(p, "clinical_note"); isMap {
		text, _ := note["text"].(string)
		if len(text) < noteMin {
			issues = append(issues, fmt.Sprintf("Clinical note too short (%d chars, min %d)", len(text), noteMin))
			score -= penaltyShortNote
		}
		if !containsAny(text, soapKeywords) {
			warnings = append(warnings, "Clinical note may not be in SOAP format")
			score -= penaltyNoSOAP
		}
	}

	orders, _ := p["orders"].([]any)
	if len(orders) < 1 {
		issues = append(issues, "Must have at least 1 order")
		score -= penaltyNoOrders
	} else {
		pending := pendingOrders(orders)
		if len(pending) == 0 {
			warnings = append(warnings, "No pending orders — needed to show 'open loop'")
			score -= penaltyNoOpenLoop
		} else {
			for _, o := range pending {
				if o["days_pending"] == nil {
					warnings = append(warnings, fmt.Sprintf("Order '%s' missing days_pending", testName(o)))
					score -= penaltyOrderDetail
				}
				if s, _ := o["failure_reason"].(string); s == "" {
					warnings = append(warnings, fmt.Sprintf("Order '%s' missing failure_reason", testName(o)))
					score -= penaltyOrderDetail
				}
			}
		}
	}

	results, _ := p["results"].([]any)
	if len(results) < 1 {
		issues = append(issues, "Must have at least 1 result")
		score -= penaltyNoResults
	} else {
		for _, raw := range results {
			r, isMap := raw.(map[string]any)
			if !isMap {
				continue
			}
			if s, _ := r["full_text"].(string); s == "" {
				warnings = append(warnings, fmt.Sprintf("Result '%s' missing full_text", testName(r)))
				score -= penaltyResultDetail
			}
		}
	}

	if hyp, isMap := mapField(p, "diagnostic_hypothesis"); isMap {
		if s, _ := hyp["primary"].(string); s == "" {
			issues = append(issues, "Missing diagnostic_hypothesis.primary")
			score -= penaltyNoHypothesis
		}
		if s, _ := hyp["reasoning"].(string); s == "" {
			warnings = append(warnings, "Missing diagnostic_hypothesis.reasoning")
			score -= penaltyNoReasoning
		}
	}

	// The failure mode narrative is the demo payload; a thin one sinks the
	// whole scenario.
	if fm := fmt.Sprintf("%v", p["failure_mode"]); p["failure_mode"] == nil || len(fm) < failureModeMin {
		issues = append(issues, "failure_mode too short or missing (critical for demo)")
		score -= penaltyShortFailure
	}

	if flags, _ := p["ai_should_flag"].([]any); len(flags) < 2 {
		warnings = append(warnings, "ai_should_flag missing or too few items (needed for demo)")
		score -= penaltyFewFlags
	}

	// Diversity check: templated generators tend to stamp every pending order
	// with the same 14-day wait.
	if days := pendingDays(orders); len(days) > 0 && allEqual(days, 14) {
		warnings = append(warnings, "All pending orders are exactly 14 days — lacks diversity")
		score -= penaltyUniformPending
	}

	if hasArtifacts(p) {
		issues = append(issues, "Model artifact detected")
		score -= penaltyArtifact
	}

	if score < 0 {
		score = 0
	}

	status := api.StatusPass
	switch {
	case len(issues) > 0 && score < rejectBelow:
		status = api.StatusReject
	case len(issues) > 0 || len(warnings) > 0:
		status = api.StatusWarning
	}

	if issues == nil {
		issues = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return api.ScoreCard{
		Index: index, ID: pid, Status: status,
		Score: score, Issues: issues, Warnings: warnings,
	}
}

// All evaluates every scenario, fanning out across workers and restoring
// index order in the result slice. workers <= 0 uses one worker per CPU.
func All(records []any, workers int) []api.ScoreCard {
	return fanout.Map(records, workers, Evaluate)
}

func patientID(p map[string]any, index int) string {
	if v, present := p["patient_id"]; present && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("#%d", index)
}

func mapField(p map[string]any, key string) (map[string]any, bool) {
	v, present := p[key]
	if !present {
		// Treated as an empty mapping so the nested checks still run and
		// report what is missing inside it.
		return map[string]any{}, true
	}
	m, isMap := v.(map[string]any)
	return m, isMap
}

func pendingOrders(orders []any) []map[string]any {
	var pending []map[string]any
	for _, raw := range orders {
		o, isMap := raw.(map[string]any)
		if !isMap {
			continue
		}
		if s, _ := o["status"].(string); s == "pending" {
			pending = append(pending, o)
		}
	}
	return pending
}

// pendingDays collects truthy days_pending values across all orders,
// pending or not.
func pendingDays(orders []any) []float64 {
	var days []float64
	for _, raw := range orders {
		o, isMap := raw.(map[string]any)
		if !isMap {
			continue
		}
		if d, isNum := o["days_pending"].(float64); isNum && d != 0 {
			days = append(days, d)
		}
	}
	return days
}

func allEqual(days []float64, want float64) bool {
	for _, d := range days {
		if d != want {
			return false
		}
	}
	return true
}

func testName(o map[string]any) string {
	if s, _ := o["test_name"].(string); s != "" {
		return s
	}
	return "?"
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasArtifacts(record any) bool {
	raw, err := jsonenc.Marshal(record)
	if err != nil {
		return false
	}
	s := string(raw)
	for _, token := range artifactTokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
