package epic

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Status is the normalized state of a task or batch issue.
type Status string

const (
	StatusDone       Status = "done"
	StatusInProgress Status = "in-progress"
	StatusReady      Status = "ready"
	StatusBlocked    Status = "blocked"
	StatusUnknown    Status = "unknown"
)

// ParseStatus maps free-form status text to a Status. Besides the canonical
// values it accepts the issue-tracker spellings "planned" (ready),
// "not-planned" (blocked), "closed" (done) and "open" (ready).
// Anything else is StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))) {
	case "done", "closed", "completed":
		return StatusDone
	case "in-progress", "in progress", "active", "doing":
		return StatusInProgress
	case "ready", "planned", "open", "todo":
		return StatusReady
	case "blocked", "not-planned", "not planned":
		return StatusBlocked
	default:
		return StatusUnknown
	}
}

// DependencyKind distinguishes task-level from batch-level dependencies.
type DependencyKind string

const (
	KindTask  DependencyKind = "task"
	KindBatch DependencyKind = "batch"
)

// Task is a leaf sub-issue.
type Task struct {
	ID        int64  `json:"id" toml:"id" bson:"id"`
	Number    int    `json:"number" toml:"number" bson:"number"`
	Title     string `json:"title" toml:"title" bson:"title"`
	Status    Status `json:"status" toml:"status" bson:"status"`
	DependsOn []int  `json:"depends_on,omitempty" toml:"depends_on" bson:"depends_on,omitempty"`
}

// Batch is a grouping sub-issue containing tasks.
type Batch struct {
	ID        int64  `json:"id" toml:"id" bson:"id"`
	Number    int    `json:"number" toml:"number" bson:"number"`
	Title     string `json:"title" toml:"title" bson:"title"`
	Status    Status `json:"status" toml:"status" bson:"status"`
	Progress  int    `json:"progress" toml:"progress" bson:"progress"` // 0-100
	Tasks     []Task `json:"tasks" toml:"tasks" bson:"tasks"`
	DependsOn []int  `json:"depends_on,omitempty" toml:"depends_on" bson:"depends_on,omitempty"`
}

// Dependency is a directed edge: From depends on To.
type Dependency struct {
	From int            `json:"from" toml:"from" bson:"from"`
	To   int            `json:"to" toml:"to" bson:"to"`
	Kind DependencyKind `json:"kind" toml:"kind" bson:"kind"`
}

// Epic is the top-level tracked issue.
type Epic struct {
	ID           int64        `json:"id" toml:"id" bson:"id"`
	Number       int          `json:"number" toml:"number" bson:"number"`
	Title        string       `json:"title" toml:"title" bson:"title"`
	Owner        string       `json:"owner,omitempty" toml:"owner" bson:"owner,omitempty"`
	Repo         string       `json:"repo,omitempty" toml:"repo" bson:"repo,omitempty"`
	Batches      []Batch      `json:"batches" toml:"batches" bson:"batches"`
	Dependencies []Dependency `json:"dependencies,omitempty" toml:"dependencies" bson:"dependencies,omitempty"`
}

// Locator returns "owner/repo#number", or just the title when the epic is
// not tied to a repository.
func (e *Epic) Locator() string {
	if e.Owner == "" || e.Repo == "" {
		return e.Title
	}
	return e.Owner + "/" + e.Repo + "#" + strconv.Itoa(e.Number)
}

// TaskCount returns the number of tasks across all batches.
func (e *Epic) TaskCount() int {
	n := 0
	for _, b := range e.Batches {
		n += len(b.Tasks)
	}
	return n
}

// Batch returns the batch with the given number.
func (e *Epic) Batch(number int) (*Batch, bool) {
	for i := range e.Batches {
		if e.Batches[i].Number == number {
			return &e.Batches[i], true
		}
	}
	return nil, false
}

// TaskBatches maps every task number to the number of its parent batch.
func (e *Epic) TaskBatches() map[int]int {
	m := make(map[int]int, e.TaskCount())
	for _, b := range e.Batches {
		for _, t := range b.Tasks {
			m[t.Number] = b.Number
		}
	}
	return m
}

// ComputeProgress returns the percentage (0-100) of done tasks, rounded to
// the nearest integer. A batch without tasks reports 100 when it is itself
// done and 0 otherwise.
func (b *Batch) ComputeProgress() int {
	if len(b.Tasks) == 0 {
		if b.Status == StatusDone {
			return 100
		}
		return 0
	}
	done := 0
	for _, t := range b.Tasks {
		if t.Status == StatusDone {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(b.Tasks))))
}

// Normalize derives batch progress, deduplicates dependency lists, fills
// empty statuses with StatusUnknown and rebuilds the flattened Dependencies
// view. It mutates the receiver; call it on freshly loaded snapshots.
func (e *Epic) Normalize() {
	for bi := range e.Batches {
		b := &e.Batches[bi]
		if b.Status == "" {
			b.Status = StatusUnknown
		}
		b.DependsOn = dedup(b.DependsOn)
		for ti := range b.Tasks {
			t := &b.Tasks[ti]
			if t.Status == "" {
				t.Status = StatusUnknown
			}
			t.DependsOn = dedup(t.DependsOn)
		}
		b.Progress = b.ComputeProgress()
	}
	e.Dependencies = e.flatten()
}

func (e *Epic) flatten() []Dependency {
	var deps []Dependency
	for _, b := range e.Batches {
		for _, t := range b.Tasks {
			for _, d := range t.DependsOn {
				deps = append(deps, Dependency{From: t.Number, To: d, Kind: KindTask})
			}
		}
	}
	for _, b := range e.Batches {
		for _, d := range b.DependsOn {
			deps = append(deps, Dependency{From: b.Number, To: d, Kind: KindBatch})
		}
	}
	return deps
}

// Clone returns a deep copy of the epic.
func (e *Epic) Clone() *Epic {
	out := *e
	out.Batches = make([]Batch, len(e.Batches))
	for i, b := range e.Batches {
		nb := b
		nb.DependsOn = slices.Clone(b.DependsOn)
		nb.Tasks = make([]Task, len(b.Tasks))
		for j, t := range b.Tasks {
			nt := t
			nt.DependsOn = slices.Clone(t.DependsOn)
			nb.Tasks[j] = nt
		}
		out.Batches[i] = nb
	}
	out.Dependencies = slices.Clone(e.Dependencies)
	return &out
}

// dedup removes repeated values while keeping first-seen order.
func dedup(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	seen := make(map[int]bool, len(xs))
	out := xs[:0:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
