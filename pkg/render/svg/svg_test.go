package svg

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeEpic,
		Title:   "Checkout <revamp>",
		Width:   600,
		Height:  300,
		Groups: []graph.Group{
			{Number: 10, Title: "Backend", Progress: 50, X: 40, Y: 40, Width: 260, Height: 200, URL: "https://example.com/10"},
		},
		Nodes: []graph.Node{
			{Number: 11, Title: "Design API", Status: "done", Batch: 10, X: 60, Y: 84, Width: 220, Height: 64},
			{Number: 12, Title: "Ship & monitor", Status: "in-progress", Batch: 10, X: 60, Y: 168, Width: 220, Height: 64, URL: "https://example.com/12"},
		},
		Edges: []graph.Edge{
			{ID: "11->12", From: 11, To: 12, FromBatch: 10, ToBatch: 10, Points: []graph.Point{{X: 170, Y: 148}, {X: 170, Y: 168}}, Path: "M 170 148 L 170 168"},
			{ID: "12->99", From: 12, To: 99, FromBatch: 10, ToBatch: 20, InterBatch: true, Points: []graph.Point{}},
		},
	}
}

func TestRender_WellFormed(t *testing.T) {
	out := Render(sampleLayout(), WithTitle(""), WithEdgeLabels(), WithInteraction())
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRender_Contents(t *testing.T) {
	out := string(Render(sampleLayout()))

	for _, want := range []string{
		`viewBox="0 0 600 300"`,
		`id="batch-10"`,
		`#10 Backend`,
		`50%`,
		`id="task-11"`,
		`data-task="12"`,
		`Ship &amp; monitor`,
		`in progress`,
		`href="https://example.com/12"`,
		`id="edge-11-&gt;12"`,
		`d="M 170 148 L 170 168"`,
		`marker-end="url(#arrow)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "12-&gt;99") {
		t.Error("unroutable edge was drawn")
	}
	if strings.Contains(out, "<script") {
		t.Error("script emitted without WithInteraction")
	}
	if strings.Contains(out, "Checkout") {
		t.Error("title drawn without WithTitle")
	}
}

func TestRender_DrawOrder(t *testing.T) {
	out := string(Render(sampleLayout()))
	batch := strings.Index(out, `id="batch-10"`)
	edge := strings.Index(out, `class="edge"`)
	task := strings.Index(out, `id="task-11"`)
	if !(batch < edge && edge < task) {
		t.Errorf("draw order batch=%d edge=%d task=%d, want batch < edge < task", batch, edge, task)
	}
}

func TestRender_Title(t *testing.T) {
	out := string(Render(sampleLayout(), WithTitle("")))
	if !strings.Contains(out, "Checkout &lt;revamp&gt;") {
		t.Error("layout title not drawn")
	}
	if !strings.Contains(out, `viewBox="0 0 600 340"`) {
		t.Error("title band not added to height")
	}
	if !strings.Contains(out, `translate(0 40)`) {
		t.Error("content not shifted below the title band")
	}

	out = string(Render(sampleLayout(), WithTitle("Roadmap")))
	if !strings.Contains(out, ">Roadmap</text>") {
		t.Error("explicit title not drawn")
	}
}

func TestRender_EdgeStyles(t *testing.T) {
	l := sampleLayout()
	l.Edges = []graph.Edge{
		{ID: "a", From: 1, To: 2, InterBatch: true, Path: "M 0 0 L 10 0", Points: []graph.Point{{}, {X: 10}}},
		{ID: "b", From: 10, To: 20, BatchEdge: true, Path: "M 0 0 L 0 10", Points: []graph.Point{{}, {Y: 10}}},
	}
	out := string(Render(l, WithEdgeLabels()))
	for _, want := range []string{`stroke-dasharray="6 4"`, `url(#arrow-inter)`, `url(#arrow-batch)`, `#1→#2`, `#10→#20`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_Theme(t *testing.T) {
	th := DefaultTheme
	th.Background = "#101010"
	out := string(Render(sampleLayout(), WithTheme(th)))
	if !strings.Contains(out, `fill="#101010"`) {
		t.Error("custom background not applied")
	}
}

func TestRender_FromEngine(t *testing.T) {
	e := &epic.Epic{
		Number: 1, Title: "Launch", Owner: "acme", Repo: "web",
		Batches: []epic.Batch{
			{Number: 10, Title: "Build", Tasks: []epic.Task{
				{Number: 11, Title: "API", Status: epic.StatusDone},
				{Number: 12, Title: "UI", Status: epic.StatusReady, DependsOn: []int{11}},
			}},
			{Number: 20, Title: "Ship", DependsOn: []int{10}, Tasks: []epic.Task{
				{Number: 21, Title: "Release", Status: epic.StatusBlocked, DependsOn: []int{12}},
			}},
		},
	}
	e.Normalize()
	res, err := layout.ComputeLayout(context.Background(), e, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	out := string(Render(graph.Export(res, e)))
	for _, n := range []string{"11", "12", "21"} {
		if !strings.Contains(out, `id="task-`+n+`"`) {
			t.Errorf("task %s not drawn", n)
		}
	}
	if strings.Count(out, `class="batch"`) != 2 {
		t.Errorf("want 2 batches drawn")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		perLine  int
		maxLines int
		want     []string
	}{
		{"single line", "Design API", 20, 3, []string{"Design API"}},
		{"wraps words", "alpha beta gamma", 10, 3, []string{"alpha beta", "gamma"}},
		{"splits long word", "abcdefghij", 4, 5, []string{"abcd", "efgh", "ij"}},
		{"ellipsis on overflow", "one two three four", 5, 2, []string{"one", "two…"}},
		{"empty", "", 10, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.text, tt.perLine, tt.maxLines)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("#10 Backend", 20); got != "#10 Backend" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("#10 Backend", 5); got != "#10 …" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestMidpoint(t *testing.T) {
	got := midpoint([]graph.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	if got != (graph.Point{X: 10, Y: 0}) {
		t.Errorf("midpoint() = %v", got)
	}
}
