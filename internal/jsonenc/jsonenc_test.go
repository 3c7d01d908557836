package jsonenc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarshalKeepsAngleBrackets(t *testing.T) {
	raw, err := Marshal(map[string]any{"text": "leaked <unused12> token"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(raw), "<unused12>") {
		t.Errorf("Marshal() escaped angle brackets: %s", raw)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	if err := WriteFile(path, []string{"a", "b"}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// Indented output, two entries.
	if !strings.Contains(string(data), "\n  \"a\"") {
		t.Errorf("WriteFile() output not indented: %s", data)
	}
}
