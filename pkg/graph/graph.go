package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/epicflow/pkg/epic"
)

// =============================================================================
// Epic Serialization API
// =============================================================================

// MarshalEpic converts an epic snapshot to indented JSON bytes.
func MarshalEpic(e *epic.Epic) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeEpicTo(e, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEpicFile writes an epic snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteEpicFile(e *epic.Epic, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeEpicTo(e, f)
}

// WriteEpic writes an epic snapshot as JSON to an io.Writer.
func WriteEpic(e *epic.Epic, w io.Writer) error {
	return writeEpicTo(e, w)
}

// ReadEpicFile reads a JSON file and returns the normalized, validated epic.
func ReadEpicFile(path string) (*epic.Epic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readEpicFrom(f)
}

// ReadEpic decodes a JSON epic from an io.Reader, normalizes and validates it.
func ReadEpic(r io.Reader) (*epic.Epic, error) {
	return readEpicFrom(r)
}

// UnmarshalEpic decodes, normalizes and validates JSON epic bytes.
func UnmarshalEpic(data []byte) (*epic.Epic, error) {
	return readEpicFrom(bytes.NewReader(data))
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeEpicTo(e *epic.Epic, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readEpicFrom(r io.Reader) (*epic.Epic, error) {
	var e epic.Epic
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.Normalize()
	return &e, nil
}
