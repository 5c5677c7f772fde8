package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
// The CLI installs it under --verbose and the API server installs it at
// startup, so stage timings show up without a metrics backend.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, source, ref string) {
	h.Logger.Debug("fetch started", "source", source, "ref", ref)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, source, ref string, taskCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("fetch failed", "source", source, "ref", ref, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("fetch done", "source", source, "ref", ref, "tasks", taskCount, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, batchCount, taskCount int) {
	h.Logger.Debug("layout started", "viz", vizType, "batches", batchCount, "tasks", taskCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.Logger.Debug("layout done", "viz", vizType, "duration", d, "err", err)
}

// OnLayoutDiagnostics warns when the engine had to break cycles or drop
// edges; clean layouts are logged at debug level.
func (h *LogHooks) OnLayoutDiagnostics(_ context.Context, epic string, cycles, crossings, unroutable int) {
	if cycles > 0 || unroutable > 0 {
		h.Logger.Warn("layout degraded", "epic", epic, "cycles", cycles, "unroutable", unroutable, "crossings", crossings)
		return
	}
	h.Logger.Debug("layout clean", "epic", epic, "crossings", crossings)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
