// Package source defines where epic snapshots come from.
//
// A [Repository] turns a [Ref] into a normalized [epic.Epic]. Two
// implementations exist: [file] reads JSON or TOML snapshots from disk, and
// the GitHub client in pkg/integrations/github walks an epic issue's
// sub-issue tree. File snapshots are also a [Mutator], so dependency edits
// can be written back.
package source

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// Kind names a snapshot backend.
type Kind string

const (
	KindFile   Kind = "file"
	KindGitHub Kind = "github"
)

// Ref identifies one epic at its source.
type Ref struct {
	Kind   Kind   `json:"kind"`
	Path   string `json:"path,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Number int    `json:"number,omitempty"`
}

// String renders the ref in the form accepted by [ParseRef].
func (r Ref) String() string {
	if r.Kind == KindGitHub {
		s := r.Owner + "/" + r.Repo
		if r.Number > 0 {
			s += "#" + strconv.Itoa(r.Number)
		}
		return s
	}
	return r.Path
}

// ParseRef parses "owner/repo#12" (or "github:owner/repo#12") as a GitHub
// ref and anything else as a file path. Paths ending in .json or .toml are
// always files, even when they contain a slash and a '#'.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, errs.New(errs.ErrCodeInvalidInput, "empty epic reference")
	}
	if rest, ok := strings.CutPrefix(s, "github:"); ok {
		return parseGitHub(rest)
	}
	if IsSnapshotFile(s) || !strings.Contains(s, "#") {
		if err := errs.ValidatePath(s); err != nil {
			return Ref{}, err
		}
		return Ref{Kind: KindFile, Path: s}, nil
	}
	return parseGitHub(s)
}

func parseGitHub(s string) (Ref, error) {
	repoPart, numPart, hasNum := strings.Cut(s, "#")
	owner, repo, err := errs.ValidateRepoRef(repoPart)
	if err != nil {
		return Ref{}, err
	}
	ref := Ref{Kind: KindGitHub, Owner: owner, Repo: repo}
	if hasNum {
		n, err := strconv.Atoi(numPart)
		if err != nil {
			return Ref{}, errs.New(errs.ErrCodeInvalidInput, "invalid issue number %q", numPart)
		}
		if err := errs.ValidateIssueNumber(n); err != nil {
			return Ref{}, err
		}
		ref.Number = n
	}
	return ref, nil
}

// IsSnapshotFile reports whether path has a snapshot extension.
func IsSnapshotFile(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".json") || strings.HasSuffix(p, ".toml")
}

// Repository fetches epic snapshots.
type Repository interface {
	// Name returns the backend identifier ("file", "github").
	Name() string
	// Fetch returns the normalized epic for ref. If refresh is true, cached
	// data is bypassed.
	Fetch(ctx context.Context, ref Ref, refresh bool) (*epic.Epic, error)
}

// Mutator applies dependency and membership edits at the source and returns
// the updated snapshot.
type Mutator interface {
	AddDependency(ctx context.Context, ref Ref, kind epic.DependencyKind, from, to int) (*epic.Epic, error)
	RemoveDependency(ctx context.Context, ref Ref, kind epic.DependencyKind, from, to int) (*epic.Epic, error)
	MoveTask(ctx context.Context, ref Ref, task, toBatch int) (*epic.Epic, error)
}

// Summary is one entry in an epic listing.
type Summary struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Lister enumerates the epics of a repository.
type Lister interface {
	ListEpics(ctx context.Context, owner, repo string) ([]Summary, error)
}
