// Package storage persists computed layouts as snapshots so that earlier
// renderings of an epic can be reloaded without recomputing them.
//
// This package defines the [Store] interface with two implementations:
//   - [FileStore]: JSON files in a local directory, for the CLI
//   - [mongo.Store]: a MongoDB collection, for the HTTP API
//
// # Usage
//
//	store, err := storage.NewFileStore("")  // Uses ~/.config/epicflow/snapshots/
//	id, err := store.Save(ctx, layout, epicHash)
//	snap, err := store.Latest(ctx, "acme", "web", 12)
//
// [mongo.Store]: github.com/matzehuels/epicflow/pkg/storage/mongo
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved layout with the identity of the epic it shows.
type Snapshot struct {
	ID        string       `json:"id" bson:"_id"`
	Owner     string       `json:"owner,omitempty" bson:"owner"`
	Repo      string       `json:"repo,omitempty" bson:"repo"`
	Number    int          `json:"number" bson:"number"`
	Title     string       `json:"title" bson:"title"`
	EpicHash  string       `json:"epic_hash" bson:"epic_hash"`
	VizType   string       `json:"viz_type" bson:"viz_type"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
}

// Matches reports whether the snapshot belongs to the given epic. Owner
// and repo compare case-insensitively, as GitHub does.
func (s *Snapshot) Matches(owner, repo string, number int) bool {
	return s.Number == number && strings.EqualFold(s.Owner, owner) && strings.EqualFold(s.Repo, repo)
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores l under a new ID and returns it.
	Save(ctx context.Context, l graph.Layout, epicHash string) (string, error)

	// Load returns the snapshot with the given ID.
	// Returns an error matching ErrNotFound if it does not exist.
	Load(ctx context.Context, id string) (*Snapshot, error)

	// Latest returns the most recently saved snapshot of an epic.
	// Returns an error matching ErrNotFound if there is none.
	Latest(ctx context.Context, owner, repo string, number int) (*Snapshot, error)

	// Close releases the backend's resources.
	Close() error
}

// NewSnapshot wraps l in a snapshot with a fresh ID. An empty epicHash
// falls back to the hash recorded in the layout.
func NewSnapshot(l graph.Layout, epicHash string) *Snapshot {
	if epicHash == "" {
		epicHash = l.EpicHash
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Owner:     l.Owner,
		Repo:      l.Repo,
		Number:    l.Number,
		Title:     l.Title,
		EpicHash:  epicHash,
		VizType:   l.VizType,
		CreatedAt: time.Now().UTC(),
		Layout:    l,
	}
}

// ValidateID rejects IDs that are not UUIDs. Callers that build file paths
// or queries from user input check IDs with it first.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid snapshot id %q", id)
	}
	return nil
}

// NotFound returns an error that matches both ErrNotFound and the
// NOT_FOUND error code.
func NotFound(format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeNotFound, ErrNotFound, format, args...)
}
