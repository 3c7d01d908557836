// Package validate checks hypothesis-extraction training examples against the
// fine-tuning schema. Records arrive as loosely-typed JSON values; every shape
// deviation becomes an accumulated issue string on the verdict, never an
// error, so a quality report can be produced even for a wholly malformed
// corpus.
package validate

import (
	"fmt"
	"strings"

	"github.com/datar-psa/medqa/api"
	"github.com/datar-psa/medqa/internal/fanout"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

// requiredOutputFields are checked in this order so issue lists are
// reproducible across runs.
var requiredOutputFields = []string{
	"primary_hypothesis",
	"differential_diagnoses",
	"key_symptoms",
	"urgency",
	"tests_ordered",
	"reasoning",
}

var validUrgency = map[string]bool{"low": true, "medium": true, "high": true}

const (
	inputMin     = 100
	reasoningMin = 50
	reasoningMax = 300
)

// artifactTokens are leftover special tokens that indicate corrupted model
// generation anywhere in the serialized record.
var artifactTokens = []string{"<unused", "<start_of_turn>", "thought\n"}

// Example validates a single training example and returns its verdict.
// It is a pure function of the record: evaluating the same record twice
// yields the same verdict.
func Example(record any, index int) api.VerdictRecord {
	var issues []string

	ex, ok := record.(map[string]any)
	if !ok {
		return api.VerdictRecord{Index: index, Status: api.StatusReject, Issues: []string{"Not a dict"}}
	}

	if in, present := ex["input"]; !present {
		issues = append(issues, "Missing 'input' field")
	} else if s, isStr := in.(string); !isStr || len(s) < inputMin {
		issues = append(issues, fmt.Sprintf("'input' too short (%d chars, min %d)", stringLen(in), inputMin))
	}

	rawOut, present := ex["output"]
	if !present {
		issues = append(issues, "Missing 'output' field")
		return api.VerdictRecord{Index: index, Status: deriveStatus(issues), Issues: issues}
	}
	out, isMap := rawOut.(map[string]any)
	if !isMap {
		// Structural failure: no field checks are possible, reject outright.
		issues = append(issues, "'output' is not a dict")
		return api.VerdictRecord{Index: index, Status: api.StatusReject, Issues: issues}
	}

	for _, field := range requiredOutputFields {
		if _, present := out[field]; !present {
			issues = append(issues, fmt.Sprintf("Missing output field: '%s'", field))
		}
	}

	// Field-specific checks run only when the field is present, and all of
	// them run; nothing short-circuits past this point.
	if v, present := out["primary_hypothesis"]; present {
		if s, isStr := v.(string); !isStr || strings.TrimSpace(s) == "" {
			issues = append(issues, "'primary_hypothesis' is empty or not a string")
		}
	}

	if v, present := out["differential_diagnoses"]; present {
		if d, isList := v.([]any); !isList {
			issues = append(issues, "'differential_diagnoses' must be a list")
		} else if len(d) < 1 {
			issues = append(issues, "'differential_diagnoses' must have at least 1 item")
		} else if len(d) > 5 {
			issues = append(issues, fmt.Sprintf("'differential_diagnoses' has %d items (max 5)", len(d)))
		}
	}

	if v, present := out["key_symptoms"]; present {
		if k, isList := v.([]any); !isList {
			issues = append(issues, "'key_symptoms' must be a list")
		} else if len(k) < 2 {
			issues = append(issues, "'key_symptoms' must have at least 2 items")
		}
	}

	if v, present := out["urgency"]; present {
		s, isStr := v.(string)
		if !isStr || !validUrgency[s] {
			issues = append(issues, fmt.Sprintf("'urgency' must be low/medium/high, got: '%v'", v))
		}
	}

	if v, present := out["tests_ordered"]; present {
		if ts, isList := v.([]any); !isList || len(ts) < 1 {
			issues = append(issues, "'tests_ordered' must be a non-empty list")
		}
	}

	if v, present := out["reasoning"]; present {
		if r, isStr := v.(string); !isStr {
			issues = append(issues, "'reasoning' must be a string")
		} else if len(r) < reasoningMin {
			issues = append(issues, fmt.Sprintf("'reasoning' too short (%d chars, min %d)", len(r), reasoningMin))
		} else if len(r) > reasoningMax {
			issues = append(issues, fmt.Sprintf("'reasoning' too long (%d chars, max %d)", len(r), reasoningMax))
		}
	}

	if hasArtifacts(ex) {
		issues = append(issues, "Model artifact detected (<unused> or turn tokens)")
	}

	return api.VerdictRecord{Index: index, Status: deriveStatus(issues), Issues: issues}
}

// All validates every record, fanning out across workers and restoring
// index order in the result slice. workers <= 0 uses one worker per CPU.
func All(records []any, workers int) []api.VerdictRecord {
	return fanout.Map(records, workers, Example)
}

// deriveStatus maps issue texts to a verdict. Any issue mentioning a missing
// field or a generation artifact rejects the record; the substring rule is
// kept as-is for compatibility with existing reports.
func deriveStatus(issues []string) api.Status {
	if len(issues) == 0 {
		return api.StatusPass
	}
	for _, issue := range issues {
		if strings.Contains(issue, "Missing") ||
			strings.Contains(issue, "REJECT") ||
			strings.Contains(issue, "artifact") {
			return api.StatusReject
		}
	}
	return api.StatusWarning
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

func stringLen(v any) int {
	if s, ok := v.(string); ok {
		return len(s)
	}
	return 0
}
