package epic

import (
	"errors"
	"slices"
	"testing"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

func sample() *Epic {
	e := &Epic{
		Number: 1,
		Title:  "Payments v2",
		Owner:  "acme",
		Repo:   "payments",
		Batches: []Batch{
			{Number: 10, Title: "Schema", Status: StatusDone, Tasks: []Task{
				{Number: 11, Status: StatusDone},
				{Number: 12, Status: StatusDone, DependsOn: []int{11}},
			}},
			{Number: 20, Title: "API", DependsOn: []int{10, 10}, Tasks: []Task{
				{Number: 21, Status: StatusInProgress, DependsOn: []int{12, 12}},
				{Number: 22},
				{Number: 23, Status: StatusDone},
			}},
		},
	}
	e.Normalize()
	return e
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"done", StatusDone},
		{"Closed", StatusDone},
		{"in_progress", StatusInProgress},
		{"In Progress", StatusInProgress},
		{"planned", StatusReady},
		{"open", StatusReady},
		{"not_planned", StatusBlocked},
		{"blocked", StatusBlocked},
		{"", StatusUnknown},
		{"wontfix", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseStatus(tt.in); got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
		want  int
	}{
		{"all done", Batch{Tasks: []Task{{Status: StatusDone}, {Status: StatusDone}}}, 100},
		{"one of three", Batch{Tasks: []Task{{Status: StatusDone}, {}, {}}}, 33},
		{"two of three", Batch{Tasks: []Task{{Status: StatusDone}, {Status: StatusDone}, {}}}, 67},
		{"empty open", Batch{Status: StatusReady}, 0},
		{"empty done", Batch{Status: StatusDone}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.batch.ComputeProgress(); got != tt.want {
				t.Errorf("ComputeProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	e := sample()

	if got := e.Batches[1].DependsOn; !slices.Equal(got, []int{10}) {
		t.Errorf("batch DependsOn = %v, want [10]", got)
	}
	if got := e.Batches[1].Tasks[0].DependsOn; !slices.Equal(got, []int{12}) {
		t.Errorf("task DependsOn = %v, want [12]", got)
	}
	if got := e.Batches[1].Tasks[1].Status; got != StatusUnknown {
		t.Errorf("empty status = %q, want %q", got, StatusUnknown)
	}
	if got := e.Batches[1].Progress; got != 33 {
		t.Errorf("Progress = %d, want 33", got)
	}

	want := []Dependency{
		{From: 12, To: 11, Kind: KindTask},
		{From: 21, To: 12, Kind: KindTask},
		{From: 20, To: 10, Kind: KindBatch},
	}
	if !slices.Equal(e.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", e.Dependencies, want)
	}
}

func TestAccessors(t *testing.T) {
	e := sample()

	if got := e.Locator(); got != "acme/payments#1" {
		t.Errorf("Locator() = %q", got)
	}
	if got := (&Epic{Title: "Local"}).Locator(); got != "Local" {
		t.Errorf("Locator() without repo = %q", got)
	}
	if got := e.TaskCount(); got != 5 {
		t.Errorf("TaskCount() = %d, want 5", got)
	}
	if b, ok := e.Batch(20); !ok || b.Title != "API" {
		t.Errorf("Batch(20) = %v, %v", b, ok)
	}
	if _, ok := e.Batch(99); ok {
		t.Error("Batch(99) found")
	}
	if task, batch, ok := e.Task(22); !ok || batch != 20 || task.Number != 22 {
		t.Errorf("Task(22) = %v, %d, %v", task, batch, ok)
	}
	if got := e.TaskBatches(); got[12] != 10 || got[23] != 20 {
		t.Errorf("TaskBatches() = %v", got)
	}
}

func TestClone(t *testing.T) {
	e := sample()
	c := e.Clone()
	c.Batches[0].Tasks[1].DependsOn[0] = 99
	c.Batches[1].DependsOn[0] = 99
	c.Batches[0].Title = "changed"

	if e.Batches[0].Tasks[1].DependsOn[0] != 11 || e.Batches[1].DependsOn[0] != 10 {
		t.Error("Clone shares dependency slices with the original")
	}
	if e.Batches[0].Title != "Schema" {
		t.Error("Clone shares batches with the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		epic    *Epic
		wantErr bool
	}{
		{"valid", sample(), false},
		{"empty", &Epic{}, false},
		{"nil", nil, true},
		{"duplicate batch", &Epic{Batches: []Batch{{Number: 1}, {Number: 1}}}, true},
		{"duplicate task", &Epic{Batches: []Batch{{Number: 1, Tasks: []Task{{Number: 2}, {Number: 2}}}}}, true},
		{"task in two batches", &Epic{Batches: []Batch{
			{Number: 1, Tasks: []Task{{Number: 3}}},
			{Number: 2, Tasks: []Task{{Number: 3}}},
		}}, true},
		{"negative task", &Epic{Batches: []Batch{{Number: 1, Tasks: []Task{{Number: -3}}}}}, true},
		{"dangling reference", &Epic{Batches: []Batch{{Number: 1, DependsOn: []int{42}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.epic.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidEpic) {
				t.Errorf("Validate() code = %s, want %s", errs.GetCode(err), errs.ErrCodeInvalidEpic)
			}
		})
	}
}

func TestHash(t *testing.T) {
	a, err := sample().Hash()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := sample().Hash()
	if a != b {
		t.Errorf("Hash() not stable: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}

	e := sample()
	e.Batches[0].Title = "Schema v2"
	if c, _ := e.Hash(); c == a {
		t.Error("Hash() unchanged after edit")
	}
}

func TestAddDependency(t *testing.T) {
	e := sample()

	got, err := e.AddDependency(KindTask, 22, 21)
	if err != nil {
		t.Fatal(err)
	}
	if task, _, _ := got.Task(22); !slices.Equal(task.DependsOn, []int{21}) {
		t.Errorf("task 22 DependsOn = %v, want [21]", task.DependsOn)
	}
	if task, _, _ := e.Task(22); len(task.DependsOn) != 0 {
		t.Error("AddDependency modified the receiver")
	}
	if !slices.Contains(got.Dependencies, Dependency{From: 22, To: 21, Kind: KindTask}) {
		t.Errorf("Dependencies not rebuilt: %v", got.Dependencies)
	}

	errTests := []struct {
		name     string
		kind     DependencyKind
		from, to int
		want     error
	}{
		{"self", KindTask, 21, 21, ErrSelfDependency},
		{"duplicate", KindTask, 21, 12, ErrDuplicateDependency},
		{"unknown task", KindTask, 21, 99, ErrUnknownTask},
		{"unknown source task", KindTask, 99, 21, ErrUnknownTask},
		{"unknown batch", KindBatch, 20, 99, ErrUnknownBatch},
		{"task as batch", KindBatch, 21, 10, ErrUnknownBatch},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.AddDependency(tt.kind, tt.from, tt.to)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddDependency() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoveDependency(t *testing.T) {
	e := sample()

	got, err := e.RemoveDependency(KindBatch, 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := got.Batch(20)
	if len(b.DependsOn) != 0 {
		t.Errorf("batch 20 DependsOn = %v, want empty", b.DependsOn)
	}
	if orig, _ := e.Batch(20); len(orig.DependsOn) != 1 {
		t.Error("RemoveDependency modified the receiver")
	}

	if _, err := e.RemoveDependency(KindTask, 22, 11); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("RemoveDependency(missing) error = %v", err)
	}
}

func TestMoveTask(t *testing.T) {
	e := sample()

	got, err := e.MoveTask(11, 20)
	if err != nil {
		t.Fatal(err)
	}
	if _, batch, _ := got.Task(11); batch != 20 {
		t.Errorf("task 11 in batch %d, want 20", batch)
	}
	b10, _ := got.Batch(10)
	b20, _ := got.Batch(20)
	if len(b10.Tasks) != 1 || len(b20.Tasks) != 4 {
		t.Errorf("task counts = %d, %d; want 1, 4", len(b10.Tasks), len(b20.Tasks))
	}
	if b20.Tasks[3].Number != 11 {
		t.Errorf("moved task not appended: %v", b20.Tasks)
	}
	if b20.Progress != 50 {
		t.Errorf("progress not recomputed: %d", b20.Progress)
	}
	if _, batch, _ := e.Task(11); batch != 10 {
		t.Error("MoveTask modified the receiver")
	}

	if _, err := e.MoveTask(99, 20); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("MoveTask(unknown task) error = %v", err)
	}
	if _, err := e.MoveTask(11, 99); !errors.Is(err, ErrUnknownBatch) {
		t.Errorf("MoveTask(unknown batch) error = %v", err)
	}
	same, err := e.MoveTask(11, 10)
	if err != nil || len(same.Batches[0].Tasks) != 2 {
		t.Errorf("MoveTask(same batch) = %v, %v", same, err)
	}
}
