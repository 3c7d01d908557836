// Package jsonenc serializes records without HTML escaping. The artifact scan
// looks for literal generation tokens such as "<unused", which the default
// encoder would rewrite to the escaped `\u003cunused` form.
package jsonenc

import (
	"bytes"
	"encoding/json"
	"os"
)

// Marshal encodes v as compact JSON with HTML escaping disabled.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent encodes v as indented JSON with HTML escaping disabled.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile persists v as indented JSON. Writes are whole-file and
// non-resumable; a partial write on crash is acceptable data loss.
func WriteFile(path string, v any) error {
	data, err := MarshalIndent(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
