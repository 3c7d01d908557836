package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/datar-psa/medqa/api"
)

// goodExample builds a record that passes every check. Tests mutate copies of
// it to trigger specific issues.
func goodExample() map[string]any {
	return map[string]any{
		"input": strings.Repeat("Patient presents with chest pain. ", 4),
		"output": map[string]any{
			"primary_hypothesis":     "myocardial infarction",
			"differential_diagnoses": []any{"pulmonary embolism", "aortic dissection"},
			"key_symptoms":           []any{"chest pain", "diaphoresis"},
			"urgency":                "high",
			"tests_ordered":          []any{"ECG", "troponin"},
			"reasoning":              strings.Repeat("Classic presentation with risk factors. ", 2),
		},
	}
}

func TestExample(t *testing.T) {
	tests := []struct {
		name       string
		record     any
		wantStatus api.Status
		wantIssues []string
	}{
		{
			name:       "valid example passes",
			record:     goodExample(),
			wantStatus: api.StatusPass,
			wantIssues: nil,
		},
		{
			name:       "non dict record",
			record:     []any{"not", "a", "dict"},
			wantStatus: api.StatusReject,
			wantIssues: []string{"Not a dict"},
		},
		{
			name: "missing input",
			record: map[string]any{
				"output": goodExample()["output"],
			},
			wantStatus: api.StatusReject,
			wantIssues: []string{"Missing 'input' field"},
		},
		{
			name: "short input warns",
			record: func() map[string]any {
				ex := goodExample()
				ex["input"] = "too short"
				return ex
			}(),
			wantStatus: api.StatusWarning,
			wantIssues: []string{"'input' too short (9 chars, min 100)"},
		},
		{
			name: "missing output short-circuits field checks",
			record: map[string]any{
				"input": strings.Repeat("x", 120),
			},
			wantStatus: api.StatusReject,
			wantIssues: []string{"Missing 'output' field"},
		},
		{
			name: "output not a dict short-circuits field checks",
			record: map[string]any{
				"input":  strings.Repeat("x", 120),
				"output": "a string",
			},
			wantStatus: api.StatusReject,
			wantIssues: []string{"'output' is not a dict"},
		},
		{
			name: "empty output reports every missing field in order",
			record: map[string]any{
				"input":  strings.Repeat("x", 120),
				"output": map[string]any{},
			},
			wantStatus: api.StatusReject,
			wantIssues: []string{
				"Missing output field: 'primary_hypothesis'",
				"Missing output field: 'differential_diagnoses'",
				"Missing output field: 'key_symptoms'",
				"Missing output field: 'urgency'",
				"Missing output field: 'tests_ordered'",
				"Missing output field: 'reasoning'",
			},
		},
		{
			name: "empty hypothesis warns",
			record: func() map[string]any {
				ex := goodExample()
				ex["output"].(map[string]any)["primary_hypothesis"] = "   "
				return ex
			}(),
			wantStatus: api.StatusWarning,
			wantIssues: []string{"'primary_hypothesis' is empty or not a string"},
		},
		{
			name: "too many differentials",
			record: func() map[string]any {
				ex := goodExample()
				ex["output"].(map[string]any)["differential_diagnoses"] = []any{"a", "b", "c", "d", "e", "f"}
				return ex
			}(),
			wantStatus: api.StatusWarning,
			wantIssues: []string{"'differential_diagnoses' has 6 items (max 5)"},
		},
		{
			name: "invalid urgency",
			record: func() map[string]any {
				ex := goodExample()
				ex["output"].(map[string]any)["urgency"] = "critical"
				return ex
			}(),
			wantStatus: api.StatusWarning,
			wantIssues: []string{"'urgency' must be low/medium/high, got: 'critical'"},
		},
		{
			name: "reasoning too long",
			record: func() map[string]any {
				ex := goodExample()
				ex["output"].(map[string]any)["reasoning"] = strings.Repeat("y", 301)
				return ex
			}(),
			wantStatus: api.StatusWarning,
			wantIssues: []string{"'reasoning' too long (301 chars, max 300)"},
		},
		{
			name: "generation artifact rejects",
			record: func() map[string]any {
				ex := goodExample()
				ex["input"] = strings.Repeat("x", 120) + "<unused42>"
				return ex
			}(),
			wantStatus: api.StatusReject,
			wantIssues: []string{"Model artifact detected (<unused> or turn tokens)"},
		},
		{
			name: "start of turn token rejects",
			record: func() map[string]any {
				ex := goodExample()
				ex["output"].(map[string]any)["reasoning"] = strings.Repeat("z", 60) + "<start_of_turn>"
				return ex
			}(),
			wantStatus: api.StatusReject,
			wantIssues: []string{"Model artifact detected (<unused> or turn tokens)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Example(tt.record, 3)

			if got.Index != 3 {
				t.Errorf("Example() index = %d, want 3", got.Index)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Example() status = %v, want %v", got.Status, tt.wantStatus)
			}
			if !reflect.DeepEqual(got.Issues, tt.wantIssues) {
				t.Errorf("Example() issues = %#v, want %#v", got.Issues, tt.wantIssues)
			}
		})
	}
}

func TestExampleDeterministic(t *testing.T) {
	ex := goodExample()
	ex["output"].(map[string]any)["urgency"] = 7.0
	delete(ex["output"].(map[string]any), "reasoning")

	first := Example(ex, 0)
	second := Example(ex, 0)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Example() not deterministic: %#v vs %#v", first, second)
	}
}

func TestAllPreservesOrder(t *testing.T) {
	records := []any{
		goodExample(),
		"not a dict",
		goodExample(),
		map[string]any{"input": strings.Repeat("x", 120)},
	}

	for _, workers := range []int{1, 4, 0} {
		got := All(records, workers)
		if len(got) != len(records) {
			t.Fatalf("All() returned %d verdicts, want %d", len(got), len(records))
		}
		for i, v := range got {
			if v.Index != i {
				t.Errorf("All() verdict %d has index %d", i, v.Index)
			}
		}
		if got[1].Status != api.StatusReject || got[3].Status != api.StatusReject {
			t.Errorf("All() statuses = %v/%v, want REJECT for records 1 and 3", got[1].Status, got[3].Status)
		}
		if got[0].Status != api.StatusPass || got[2].Status != api.StatusPass {
			t.Errorf("All() statuses = %v/%v, want PASS for records 0 and 2", got[0].Status, got[2].Status)
		}
	}
}
