package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/datar-psa/medqa/api"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestMergeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_array.json", `[{"input": "one"}, {"input": "two"}]`)
	writeFile(t, dir, "b_object.json", `{"input": "three"}`)
	writeFile(t, dir, "c_wrapped.json", `{"examples": [{"input": "four"}]}`)
	writeFile(t, dir, "d_broken.json", `{not json`)
	writeFile(t, dir, "e_scalar.json", `42`)
	writeFile(t, dir, "notes.txt", `ignored`)

	records, files, err := MergeDir(dir)
	if err != nil {
		t.Fatalf("MergeDir() error = %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("MergeDir() returned %d records, want 4", len(records))
	}
	// Files sort by path, so record order is deterministic.
	wantInputs := []string{"one", "two", "three", "four"}
	for i, want := range wantInputs {
		got := records[i].(map[string]any)["input"]
		if got != want {
			t.Errorf("record %d input = %v, want %q", i, got, want)
		}
	}

	wantFiles := []FileCount{
		{Name: "a_array.json", Count: 2},
		{Name: "b_object.json", Count: 1},
		{Name: "c_wrapped.json", Count: 1},
	}
	if !reflect.DeepEqual(files, wantFiles) {
		t.Errorf("MergeDir() files = %+v, want %+v", files, wantFiles)
	}
}

func TestMergeDirMissing(t *testing.T) {
	if _, _, err := MergeDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("MergeDir() on a missing dir should fail")
	}
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "list.json", `[{"patient_id": "P001"}, {"patient_id": "P002"}]`)
	got, err := LoadScenarios(filepath.Join(dir, "list.json"))
	if err != nil {
		t.Fatalf("LoadScenarios() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("LoadScenarios() returned %d scenarios, want 2", len(got))
	}

	writeFile(t, dir, "single.json", `{"patient_id": "P003"}`)
	got, err = LoadScenarios(filepath.Join(dir, "single.json"))
	if err != nil {
		t.Fatalf("LoadScenarios() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("LoadScenarios() returned %d scenarios, want 1", len(got))
	}

	writeFile(t, dir, "broken.json", `{oops`)
	if _, err := LoadScenarios(filepath.Join(dir, "broken.json")); err == nil {
		t.Error("LoadScenarios() on broken JSON should fail")
	}
}

func TestSaveClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.json")

	records := []any{
		map[string]any{"id": "keep-0"},
		map[string]any{"id": "drop-1"},
		map[string]any{"id": "keep-2"},
		map[string]any{"id": "drop-3"},
	}
	verdicts := []api.VerdictRecord{
		{Index: 0, Status: api.StatusPass},
		{Index: 1, Status: api.StatusReject},
		{Index: 2, Status: api.StatusWarning},
		{Index: 3, Status: api.StatusReject},
	}

	kept, removed, err := SaveClean(path, records, verdicts)
	if err != nil {
		t.Fatalf("SaveClean() error = %v", err)
	}
	if kept != 2 || removed != 2 {
		t.Errorf("SaveClean() = %d kept, %d removed, want 2/2", kept, removed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read clean file: %v", err)
	}
	var saved []map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("parse clean file: %v", err)
	}
	if len(saved) != 2 || saved[0]["id"] != "keep-0" || saved[1]["id"] != "keep-2" {
		t.Errorf("clean file holds %v, want keep-0 then keep-2", saved)
	}
}

func TestSaveMergedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.json")
	records := []any{map[string]any{"input": "note with <unused token>"}}

	if err := SaveMerged(path, records); err != nil {
		t.Fatalf("SaveMerged() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read merged file: %v", err)
	}
	// Angle brackets must survive serialization or artifact scans downstream
	// would miss leaked special tokens.
	if !json.Valid(data) {
		t.Fatal("merged file is not valid JSON")
	}
	if !strings.Contains(string(data), "<unused token>") {
		t.Errorf("merged file escaped angle brackets: %s", data)
	}
}
