// Package corpus loads and persists the JSON record sets the pipeline works
// on. Reads and writes are whole-file and single-shot; an unparsable file is
// skipped and logged, never fatal to the batch.
package corpus

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datar-psa/medqa/api"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

// FileCount records how many examples one source file contributed to a merge.
type FileCount struct {
	Name  string
	Count int
}

// MergeDir merges every .json file under dir into one ordered sequence.
// Files are visited sorted by path; array files extend the sequence, object
// files append a single record, and the {"examples": [...]} wrapper emitted
// by the generator is unwrapped. Returns the merged records and per-file
// counts for the merge report.
func MergeDir(dir string) ([]any, []FileCount, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	var records []any
	var files []FileCount
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable file", "file", filepath.Base(path), "error", err)
			continue
		}

		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			slog.Warn("skipping file with JSON parse error", "file", filepath.Base(path), "error", err)
			continue
		}

		switch v := parsed.(type) {
		case []any:
			records = append(records, v...)
			files = append(files, FileCount{Name: filepath.Base(path), Count: len(v)})
		case map[string]any:
			if wrapped, ok := v["examples"].([]any); ok {
				records = append(records, wrapped...)
				files = append(files, FileCount{Name: filepath.Base(path), Count: len(wrapped)})
				continue
			}
			records = append(records, v)
			files = append(files, FileCount{Name: filepath.Base(path), Count: 1})
		default:
			slog.Warn("skipping file with unexpected top-level type", "file", filepath.Base(path))
		}
	}

	return records, files, nil
}

// LoadScenarios reads a patient scenarios file holding either a JSON array or
// a single object, normalized to a slice.
func LoadScenarios(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios %s: %w", path, err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse scenarios %s: %w", path, err)
	}

	switch v := parsed.(type) {
	case []any:
		return v, nil
	default:
		return []any{v}, nil
	}
}

// SaveMerged persists the merged corpus untouched as an indented JSON array.
func SaveMerged(path string, records []any) error {
	return jsonenc.WriteFile(path, records)
}

// SaveClean persists the corpus with REJECT-status records removed. Exclusion
// is index-based and order-preserving; surviving records are not renumbered.
// Returns the number of kept and removed records.
func SaveClean(path string, records []any, verdicts []api.VerdictRecord) (kept, removed int, err error) {
	rejected := make(map[int]bool)
	for _, v := range verdicts {
		if v.Status == api.StatusReject {
			rejected[v.Index] = true
		}
	}

	clean := make([]any, 0, len(records))
	for i, record := range records {
		if !rejected[i] {
			clean = append(clean, record)
		}
	}

	if err := jsonenc.WriteFile(path, clean); err != nil {
		return 0, 0, err
	}
	return len(clean), len(records) - len(clean), nil
}
