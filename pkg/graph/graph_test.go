package graph

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/layout"
)

func sampleEpic() *epic.Epic {
	e := &epic.Epic{
		Number: 7,
		Title:  "Payments v2",
		Owner:  "acme",
		Repo:   "payments",
		Batches: []epic.Batch{
			{Number: 10, Title: "Schema", Tasks: []epic.Task{
				{Number: 11, Title: "Tables", Status: epic.StatusDone},
				{Number: 12, Title: "Backfill", DependsOn: []int{11}},
			}},
			{Number: 20, Title: "API", DependsOn: []int{10}, Tasks: []epic.Task{
				{Number: 21, Title: "Charge", DependsOn: []int{12, 99}},
			}},
		},
	}
	e.Normalize()
	return e
}

func TestEpicRoundTrip(t *testing.T) {
	e := sampleEpic()
	data, err := MarshalEpic(e)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalEpic(data)
	if err != nil {
		t.Fatalf("UnmarshalEpic() error = %v", err)
	}
	a, _ := e.Hash()
	b, _ := back.Hash()
	if a != b {
		t.Error("round trip changed the epic")
	}
}

func TestReadEpic(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"minimal", `{"title": "x", "batches": []}`, false},
		{"derives progress", `{"batches": [{"number": 1, "tasks": [{"number": 2, "status": "done"}]}]}`, false},
		{"unknown field", `{"titel": "x"}`, true},
		{"malformed", `{"batches": [`, true},
		{"duplicate task", `{"batches": [{"number": 1, "tasks": [{"number": 2}, {"number": 2}]}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ReadEpic(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadEpic() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.name == "derives progress" && e.Batches[0].Progress != 100 {
				t.Errorf("Progress = %d, want 100", e.Batches[0].Progress)
			}
			if tt.name == "duplicate task" && !errs.Is(err, errs.ErrCodeInvalidEpic) {
				t.Errorf("code = %s", errs.GetCode(err))
			}
		})
	}
}

func TestEpicFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epic.json")
	if err := WriteEpicFile(sampleEpic(), path); err != nil {
		t.Fatal(err)
	}
	e, err := ReadEpicFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if e.TaskCount() != 3 {
		t.Errorf("TaskCount() = %d", e.TaskCount())
	}
	if _, err := ReadEpicFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadEpicFile(missing) succeeded")
	}
}

func TestExport(t *testing.T) {
	e := sampleEpic()
	res, err := layout.ComputeLayout(context.Background(), e, layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	l := Export(res, e)

	if !l.IsEpic() || l.Locator() != "acme/payments#7" {
		t.Errorf("identity = %q %q", l.VizType, l.Locator())
	}
	if len(l.Groups) != 2 || len(l.Nodes) != 3 || len(l.Edges) != 3 {
		t.Fatalf("got %d groups, %d nodes, %d edges", len(l.Groups), len(l.Nodes), len(l.Edges))
	}
	if l.Groups[0].Label() != "#10 Schema" {
		t.Errorf("Label() = %q", l.Groups[0].Label())
	}
	if l.Nodes[0].URL != "https://github.com/acme/payments/issues/11" {
		t.Errorf("URL = %q", l.Nodes[0].URL)
	}
	for _, ed := range l.Edges {
		if !ed.Routable() || !strings.HasPrefix(ed.Path, "M ") || ed.Exit == "" {
			t.Errorf("edge %s not exported with a path: %+v", ed.ID, ed)
		}
	}
	if l.EpicHash == "" || l.Width != res.CanvasWidth {
		t.Error("hash or size missing")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	e := sampleEpic()
	res, _ := layout.ComputeLayout(context.Background(), e, layout.Config{})
	l := Export(res, e)

	path := filepath.Join(t.TempDir(), "epic.layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := MarshalLayout(l)
	b, _ := MarshalLayout(back)
	if !bytes.Equal(a, b) {
		t.Error("layout changed across a file round trip")
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantViz string
		wantErr bool
	}{
		{"defaults to epic", `{"width": 80, "height": 80}`, VizTypeEpic, false},
		{"nodelink", `{"viz_type": "nodelink", "dot": "digraph {}"}`, VizTypeNodelink, false},
		{"nodelink without dot", `{"viz_type": "nodelink"}`, "", true},
		{"tasks without batches", `{"nodes": [{"number": 1}]}`, "", true},
		{"unknown viz", `{"viz_type": "tower"}`, "", true},
		{"malformed", `{`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && l.VizType != tt.wantViz {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.wantViz)
			}
		})
	}
}

func TestReadLayoutFileNotFound(t *testing.T) {
	_, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadLayoutFile() error = %v, want not-exist", err)
	}
}
