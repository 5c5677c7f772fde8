// Package file reads and edits epic snapshots stored as JSON or TOML files.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/source"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the snapshot format implied by the path extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported snapshot file %q (want .json or .toml)", path)
	}
}

// Repository serves epic snapshots from the local filesystem.
// Edits are serialized per Repository and written atomically.
type Repository struct {
	mu sync.Mutex
}

// New returns a file repository.
func New() *Repository { return &Repository{} }

// Name implements [source.Repository].
func (r *Repository) Name() string { return string(source.KindFile) }

// Fetch reads, validates and normalizes the snapshot at ref.Path. Files are
// always read fresh; refresh is ignored.
func (r *Repository) Fetch(ctx context.Context, ref source.Ref, _ bool) (*epic.Epic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Read(ref.Path)
}

// AddDependency implements [source.Mutator].
func (r *Repository) AddDependency(ctx context.Context, ref source.Ref, kind epic.DependencyKind, from, to int) (*epic.Epic, error) {
	return r.edit(ctx, ref, func(e *epic.Epic) (*epic.Epic, error) {
		return e.AddDependency(kind, from, to)
	})
}

// RemoveDependency implements [source.Mutator].
func (r *Repository) RemoveDependency(ctx context.Context, ref source.Ref, kind epic.DependencyKind, from, to int) (*epic.Epic, error) {
	return r.edit(ctx, ref, func(e *epic.Epic) (*epic.Epic, error) {
		return e.RemoveDependency(kind, from, to)
	})
}

// MoveTask implements [source.Mutator].
func (r *Repository) MoveTask(ctx context.Context, ref source.Ref, task, toBatch int) (*epic.Epic, error) {
	return r.edit(ctx, ref, func(e *epic.Epic) (*epic.Epic, error) {
		return e.MoveTask(task, toBatch)
	})
}

func (r *Repository) edit(ctx context.Context, ref source.Ref, fn func(*epic.Epic) (*epic.Epic, error)) (*epic.Epic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.Fetch(ctx, ref, true)
	if err != nil {
		return nil, err
	}
	out, err := fn(e)
	if err != nil {
		return nil, err
	}
	if err := Write(ref.Path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Read loads a snapshot file in the format given by its extension.
func Read(path string) (*epic.Epic, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapRead(path, err)
	}
	e, err := Decode(data, format)
	if err != nil {
		return nil, wrapRead(path, err)
	}
	return e, nil
}

// Decode parses, validates and normalizes a snapshot. Unknown keys are an
// INVALID_FORMAT error in both formats.
func Decode(data []byte, format Format) (*epic.Epic, error) {
	switch format {
	case FormatJSON:
		e, err := graph.UnmarshalEpic(data)
		if err != nil && errs.GetCode(err) == "" {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
		return e, err
	case FormatTOML:
		var e epic.Epic
		md, err := toml.Decode(string(data), &e)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown keys %v", undecoded)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		e.Normalize()
		return &e, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported snapshot format %q", format)
	}
}

func wrapRead(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "snapshot %s not found", path)
	}
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeInvalidFormat, err, "read snapshot %s", path)
}

// Encode serializes e in the given format.
func Encode(e *epic.Epic, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalEpic(e)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(e); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported snapshot format %q", format)
	}
}

// Write stores e at path, replacing the file atomically. The format follows
// the path extension.
func Write(path string, e *epic.Epic) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(e, format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var (
	_ source.Repository = (*Repository)(nil)
	_ source.Mutator    = (*Repository)(nil)
)
