package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/source"
)

func sampleEpic() *epic.Epic {
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
	return e
}

// fakeGitHub serves sampleEpic under the github source name.
type fakeGitHub struct {
	calls atomic.Int32
}

func (f *fakeGitHub) Name() string { return string(source.KindGitHub) }

func (f *fakeGitHub) Fetch(ctx context.Context, ref source.Ref, refresh bool) (*epic.Epic, error) {
	f.calls.Add(1)
	if ref.Number != 1 {
		return nil, errs.New(errs.ErrCodeIssueNotFound, "issue %d not found", ref.Number)
	}
	return sampleEpic(), nil
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
	t.Cleanup(func() { r.Close() })
	return r
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launch.json")
	if err := graph.WriteEpicFile(sampleEpic(), path); err != nil {
		t.Fatalf("WriteEpicFile() error = %v", err)
	}
	return path
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Engine == nil || r.Logger == nil {
		t.Fatalf("NewRunner(nil, nil, nil) left fields unset: %+v", r)
	}
	if _, ok := r.Source("file"); !ok {
		t.Error("file source should always be registered")
	}
	if _, ok := r.Source("github"); ok {
		t.Error("github source should not be registered by default")
	}
}

func TestRunner_ExecuteFile(t *testing.T) {
	r := newTestRunner(t)
	path := writeSnapshot(t)
	ctx := context.Background()

	opts := Options{Source: path, Formats: []string{"svg", "json", "dot"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.BatchCount != 2 || res.Stats.TaskCount != 3 {
		t.Errorf("Stats = %+v, want 2 batches and 3 tasks", res.Stats)
	}
	if res.EpicHash == "" || res.Layout.EpicHash != res.EpicHash {
		t.Errorf("EpicHash = %q, layout hash = %q", res.EpicHash, res.Layout.EpicHash)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v, want all misses", res.CacheInfo)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
	if !strings.Contains(string(res.Artifacts["dot"]), `"t12" -> "t21"`) {
		t.Error("dot artifact missing inter-batch edge")
	}
	l, err := graph.UnmarshalLayout(res.Artifacts["json"])
	if err != nil || len(l.Nodes) != 3 {
		t.Errorf("json artifact = %d nodes, err %v", len(l.Nodes), err)
	}

	res, err = r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	want := CacheInfo{FetchHit: false, LayoutHit: true, RenderHit: true}
	if res.CacheInfo != want {
		t.Errorf("second run CacheInfo = %+v, want %+v", res.CacheInfo, want)
	}
}

func TestRunner_FetchCachesRemote(t *testing.T) {
	r := newTestRunner(t)
	gh := &fakeGitHub{}
	r.Register(gh)
	ctx := context.Background()

	opts := Options{Source: "acme/web#1"}
	if _, hit, err := r.FetchWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("first fetch hit=%v err=%v", hit, err)
	}
	if _, hit, err := r.FetchWithCacheInfo(ctx, opts); err != nil || !hit {
		t.Fatalf("second fetch hit=%v err=%v, want cache hit", hit, err)
	}
	if got := gh.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}

	opts.Refresh = true
	if _, hit, err := r.FetchWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("refresh fetch hit=%v err=%v", hit, err)
	}
	if got := gh.calls.Load(); got != 2 {
		t.Errorf("source called %d times after refresh, want 2", got)
	}
}

func TestRunner_FetchErrors(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"no source", Options{}, errs.ErrCodeInvalidInput},
		{"github not configured", Options{Source: "acme/web#1"}, errs.ErrCodeUnsupported},
		{"bad ref", Options{Source: "acme/web#0"}, errs.ErrCodeInvalidInput},
		{"missing file", Options{Source: filepath.Join(t.TempDir(), "nope.json")}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Fetch(ctx, tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("Fetch() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunner_FetchInline(t *testing.T) {
	r := newTestRunner(t)
	in := sampleEpic()
	in.Batches[0].Progress = 0

	e, err := r.Fetch(context.Background(), Options{Epic: in})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if e == in {
		t.Error("inline epic should be copied")
	}
	if e.Batches[0].Progress != 50 {
		t.Errorf("inline epic not normalized: progress = %d", e.Batches[0].Progress)
	}

	bad := sampleEpic()
	bad.Batches[1].Tasks[0].Number = 11 // duplicate task number
	if _, err := r.Fetch(context.Background(), Options{Epic: bad}); !errs.Is(err, errs.ErrCodeInvalidEpic) {
		t.Errorf("Fetch(invalid) error = %v, want INVALID_EPIC", err)
	}
}

func TestRunner_LayoutCacheKeyedByConfig(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	e := sampleEpic()

	a, hit, err := r.LayoutWithCacheInfo(ctx, e, Options{})
	if err != nil || hit {
		t.Fatalf("first layout hit=%v err=%v", hit, err)
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, e, Options{}); !hit {
		t.Error("same epic and config should hit the cache")
	}

	opts := Options{}
	opts.Config.TaskWidth = 300
	b, hit, err := r.LayoutWithCacheInfo(ctx, e, opts)
	if err != nil || hit {
		t.Fatalf("changed config hit=%v err=%v", hit, err)
	}
	if a.Width == b.Width {
		t.Error("wider cards should widen the canvas")
	}
}

func TestRunner_LayoutNilEpic(t *testing.T) {
	r := newTestRunner(t)
	if _, err := r.Layout(context.Background(), nil, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Layout(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestRunner_Nodelink(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	opts := Options{Epic: sampleEpic(), VizType: graph.VizTypeNodelink, Formats: []string{"dot", "json"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Layout.IsNodelink() || res.Layout.DOT == "" {
		t.Errorf("layout viz=%q dot=%d bytes", res.Layout.VizType, len(res.Layout.DOT))
	}
	if string(res.Artifacts["dot"]) != res.Layout.DOT {
		t.Error("dot artifact should be the layout's DOT source")
	}
}

func TestRunner_RenderDOTNeedsEpic(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	l, err := r.Layout(ctx, sampleEpic(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Render(ctx, l, nil, Options{Formats: []string{"dot"}})
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("Render(dot, nil epic) error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	l, err := r.Layout(ctx, sampleEpic(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}

	out, err := RenderFromLayoutData(ctx, data, Options{Formats: []string{"svg"}, Title: true})
	if err != nil {
		t.Fatalf("RenderFromLayoutData() error = %v", err)
	}
	if !strings.Contains(string(out["svg"]), ">Launch</text>") {
		t.Error("title not rendered")
	}

	if _, err := RenderFromLayoutData(ctx, []byte("{"), Options{}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("RenderFromLayoutData(bad) error = %v", err)
	}
}

func TestReadInput(t *testing.T) {
	epicJSON, _ := graph.MarshalEpic(sampleEpic())
	layoutJSON, _ := json.Marshal(graph.Layout{VizType: graph.VizTypeEpic, Title: "Launch"})

	e, l, err := ReadInput(epicJSON, "json")
	if err != nil || e == nil || l != nil {
		t.Errorf("ReadInput(epic) = %v, %v, %v", e != nil, l != nil, err)
	}

	e, l, err = ReadInput(layoutJSON, "")
	if err != nil || e != nil || l == nil || l.Title != "Launch" {
		t.Errorf("ReadInput(layout) = %v, %v, %v", e != nil, l != nil, err)
	}

	tomlDoc := []byte("number = 1\ntitle = \"T\"\n\n[[batches]]\nnumber = 2\ntitle = \"B\"\n")
	e, _, err = ReadInput(tomlDoc, "toml")
	if err != nil || e == nil || len(e.Batches) != 1 {
		t.Errorf("ReadInput(toml) = %+v, %v", e, err)
	}

	if _, _, err := ReadInput([]byte("{\"bogus\": 1}"), "json"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ReadInput(unknown field) error = %v, want INVALID_FORMAT", err)
	}
}
