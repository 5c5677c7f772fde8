package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder collects the names of the events it receives.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) OnLayoutDiagnostics(_ context.Context, epic string, cycles, _, unroutable int) {
	r.add("diagnostics " + epic)
}
func (r *recorder) OnCacheHit(_ context.Context, kind string)  { r.add("hit " + kind) }
func (r *recorder) OnCacheMiss(_ context.Context, kind string) { r.add("miss " + kind) }
func (r *recorder) OnResponse(_ context.Context, method, host, path string, status int, _ time.Duration) {
	r.add(method + " " + host + path)
}

func TestRegistryDefaultsAndReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)

	ctx := context.Background()
	Pipeline().OnLayoutDiagnostics(ctx, "acme/web#7", 1, 0, 0)
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheHit(ctx, "artifact")
	HTTP().OnResponse(ctx, "GET", "api.github.com", "/repos/acme/web/issues/7", 200, time.Millisecond)

	want := []string{"diagnostics acme/web#7", "miss layout", "hit artifact", "GET api.github.com/repos/acme/web/issues/7"}
	if strings.Join(rec.events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q, want %q", rec.events, want)
	}

	Reset()
	Cache().OnCacheMiss(ctx, "epic")
	if len(rec.events) != len(want) {
		t.Error("recorder still receives events after Reset")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(rec) || Cache() != CacheHooks(rec) || HTTP() != HTTPHooks(rec) {
		t.Error("setting nil hooks replaced the installed ones")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(&recorder{})
				return
			}
			Cache().OnCacheSet(ctx, "layout", 128)
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(logger).Install()

	ctx := context.Background()
	Pipeline().OnFetchComplete(ctx, "file", "epic.json", 3, time.Millisecond, nil)
	Pipeline().OnFetchComplete(ctx, "github", "acme/web#1", 0, time.Millisecond, errors.New("boom"))
	Pipeline().OnLayoutDiagnostics(ctx, "acme/web#1", 1, 0, 2)
	Pipeline().OnLayoutDiagnostics(ctx, "acme/web#2", 0, 4, 0)
	Cache().OnCacheMiss(ctx, "layout")
	HTTP().OnError(ctx, "GET", "api.github.com", "/x", errors.New("reset"))

	out := buf.String()
	for _, want := range []string{"fetch done", "fetch failed", "layout degraded", "layout clean", "cache miss", "http error"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksDegradedIsWarn(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel}))

	h.OnLayoutDiagnostics(context.Background(), "acme/web#2", 0, 4, 0)
	if buf.Len() != 0 {
		t.Errorf("clean layout logged at warn level: %q", buf.String())
	}
	h.OnLayoutDiagnostics(context.Background(), "acme/web#1", 2, 0, 0)
	if !strings.Contains(buf.String(), "layout degraded") {
		t.Errorf("degraded layout not logged at warn level: %q", buf.String())
	}
}
