package epic

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// Validate checks the structural rules a snapshot must satisfy before it can
// be laid out: batch numbers are unique, task numbers are unique across the
// whole epic, and no number is negative. Dangling dependency references are
// not errors; layout ignores them.
//
// The returned error carries errors.ErrCodeInvalidEpic.
func (e *Epic) Validate() error {
	if e == nil {
		return errs.New(errs.ErrCodeInvalidEpic, "epic is nil")
	}
	batches := make(map[int]bool, len(e.Batches))
	owner := make(map[int]int, e.TaskCount())
	for _, b := range e.Batches {
		if b.Number < 0 {
			return errs.New(errs.ErrCodeInvalidEpic, "batch %q has negative number %d", b.Title, b.Number)
		}
		if batches[b.Number] {
			return errs.New(errs.ErrCodeInvalidEpic, "duplicate batch #%d", b.Number)
		}
		batches[b.Number] = true

		for _, t := range b.Tasks {
			if t.Number < 0 {
				return errs.New(errs.ErrCodeInvalidEpic, "task %q has negative number %d", t.Title, t.Number)
			}
			if prev, ok := owner[t.Number]; ok {
				if prev == b.Number {
					return errs.New(errs.ErrCodeInvalidEpic, "duplicate task #%d in batch #%d", t.Number, b.Number)
				}
				return errs.New(errs.ErrCodeInvalidEpic, "task #%d appears in batches #%d and #%d", t.Number, prev, b.Number)
			}
			owner[t.Number] = b.Number
		}
	}
	return nil
}

// Hash returns a SHA-256 hex digest of the snapshot's JSON encoding. Two
// snapshots with the same content hash identically, which makes the digest
// usable as a cache key.
func (e *Epic) Hash() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
