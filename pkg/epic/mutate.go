package epic

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors returned by the editing operations.
var (
	ErrUnknownTask         = errors.New("unknown task")
	ErrUnknownBatch        = errors.New("unknown batch")
	ErrSelfDependency      = errors.New("item cannot depend on itself")
	ErrDuplicateDependency = errors.New("dependency already exists")
	ErrMissingDependency   = errors.New("dependency does not exist")
)

// AddDependency returns a new snapshot in which from depends on to. Both ends
// must exist at the given kind's level. The receiver is not modified.
func (e *Epic) AddDependency(kind DependencyKind, from, to int) (*Epic, error) {
	if from == to {
		return nil, fmt.Errorf("%w: %s #%d", ErrSelfDependency, kind, from)
	}
	out := e.Clone()
	deps, err := out.dependsOn(kind, from, to)
	if err != nil {
		return nil, err
	}
	if slices.Contains(*deps, to) {
		return nil, fmt.Errorf("%w: %s #%d -> #%d", ErrDuplicateDependency, kind, from, to)
	}
	*deps = append(*deps, to)
	out.Normalize()
	return out, nil
}

// RemoveDependency returns a new snapshot without the from -> to dependency.
func (e *Epic) RemoveDependency(kind DependencyKind, from, to int) (*Epic, error) {
	out := e.Clone()
	deps, err := out.dependsOn(kind, from, to)
	if err != nil {
		return nil, err
	}
	i := slices.Index(*deps, to)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s #%d -> #%d", ErrMissingDependency, kind, from, to)
	}
	*deps = slices.Delete(*deps, i, i+1)
	out.Normalize()
	return out, nil
}

// MoveTask returns a new snapshot with the task moved to the end of another
// batch. Moving a task into the batch it already belongs to is a no-op copy.
func (e *Epic) MoveTask(task, toBatch int) (*Epic, error) {
	out := e.Clone()
	dst, ok := out.Batch(toBatch)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", ErrUnknownBatch, toBatch)
	}
	for bi := range out.Batches {
		src := &out.Batches[bi]
		ti := slices.IndexFunc(src.Tasks, func(t Task) bool { return t.Number == task })
		if ti < 0 {
			continue
		}
		if src.Number != toBatch {
			t := src.Tasks[ti]
			src.Tasks = slices.Delete(src.Tasks, ti, ti+1)
			dst.Tasks = append(dst.Tasks, t)
		}
		out.Normalize()
		return out, nil
	}
	return nil, fmt.Errorf("%w: #%d", ErrUnknownTask, task)
}

// dependsOn locates the dependency list that owns a from -> to edge and
// checks that both endpoints exist.
func (e *Epic) dependsOn(kind DependencyKind, from, to int) (*[]int, error) {
	switch kind {
	case KindBatch:
		if _, ok := e.Batch(to); !ok {
			return nil, fmt.Errorf("%w: #%d", ErrUnknownBatch, to)
		}
		b, ok := e.Batch(from)
		if !ok {
			return nil, fmt.Errorf("%w: #%d", ErrUnknownBatch, from)
		}
		return &b.DependsOn, nil
	case KindTask:
		if e.task(to) == nil {
			return nil, fmt.Errorf("%w: #%d", ErrUnknownTask, to)
		}
		t := e.task(from)
		if t == nil {
			return nil, fmt.Errorf("%w: #%d", ErrUnknownTask, from)
		}
		return &t.DependsOn, nil
	default:
		return nil, fmt.Errorf("unknown dependency kind %q", kind)
	}
}

func (e *Epic) task(number int) *Task {
	for bi := range e.Batches {
		for ti := range e.Batches[bi].Tasks {
			if e.Batches[bi].Tasks[ti].Number == number {
				return &e.Batches[bi].Tasks[ti]
			}
		}
	}
	return nil
}

// Task returns the task with the given number and the number of its batch.
func (e *Epic) Task(number int) (Task, int, bool) {
	for _, b := range e.Batches {
		for _, t := range b.Tasks {
			if t.Number == number {
				return t, b.Number, true
			}
		}
	}
	return Task{}, 0, false
}
