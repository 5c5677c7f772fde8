package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
	"github.com/matzehuels/epicflow/pkg/observability"
	"github.com/matzehuels/epicflow/pkg/source"
	"github.com/matzehuels/epicflow/pkg/source/file"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the layout engine's size
// memo and the registered sources; it doesn't store pipeline results.
// Multiple goroutines can safely use the same Runner with different options
// once all sources are registered.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine *layout.Engine
	Logger *log.Logger

	sources map[string]source.Repository
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The file source is always registered; other sources are added with
// [Runner.Register].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:   c,
		Keyer:   keyer,
		Engine:  layout.NewEngine(layout.WithLogger(logger)),
		Logger:  logger,
		sources: make(map[string]source.Repository),
	}
	r.Register(file.New())
	return r
}

// Register adds repositories, keyed by their Name. A repository with the
// name of an existing one replaces it.
func (r *Runner) Register(repos ...source.Repository) {
	for _, repo := range repos {
		r.sources[repo.Name()] = repo
	}
}

// Source returns the repository registered under name.
func (r *Runner) Source(name string) (source.Repository, bool) {
	repo, ok := r.sources[name]
	return repo, ok
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Fetch
	fetchStart := time.Now()
	e, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Epic = e
	if result.EpicHash, err = e.Hash(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash epic")
	}
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.BatchCount = len(e.Batches)
	result.Stats.TaskCount = e.TaskCount()
	result.CacheInfo.FetchHit = fetchHit

	opts.Logger.Info("fetched epic",
		"epic", e.Locator(),
		"batches", result.Stats.BatchCount,
		"tasks", result.Stats.TaskCount,
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, e, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.EdgeCount = len(l.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"viz", l.VizType,
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, e, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo loads the epic named by opts and reports whether it came
// from cache. An inline opts.Epic is validated and normalized instead of
// fetched. File snapshots are never cached since edits must show up at once.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (*epic.Epic, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}
	if opts.Epic != nil {
		e := opts.Epic.Clone()
		if err := e.Validate(); err != nil {
			return nil, false, err
		}
		e.Normalize()
		return e, false, nil
	}

	ref, err := source.ParseRef(opts.Source)
	if err != nil {
		return nil, false, err
	}
	repo, ok := r.sources[string(ref.Kind)]
	if !ok {
		return nil, false, errs.New(errs.ErrCodeUnsupported, "no %s source configured for %s", ref.Kind, ref)
	}

	cacheable := ref.Kind != source.KindFile
	cacheKey := r.Keyer.EpicKey(string(ref.Kind), cache.EpicRef{
		Owner: ref.Owner, Repo: ref.Repo, Number: ref.Number, Path: ref.Path,
	})

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if e, err := graph.UnmarshalEpic(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "epic")
				return e, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "epic")
	}

	e, err := repo.Fetch(ctx, ref, opts.Refresh)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := graph.MarshalEpic(e); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLEpic); err == nil {
				observability.Cache().OnCacheSet(ctx, "epic", len(data))
			}
		}
	}
	return e, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*epic.Epic, error) {
	e, _, err := r.FetchWithCacheInfo(ctx, opts)
	return e, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
// Layouts are keyed by the epic's content hash, the viz type and the
// normalized engine configuration.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, e *epic.Epic, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	if e == nil {
		return graph.Layout{}, false, errs.New(errs.ErrCodeInvalidInput, "epic is required")
	}

	epicHash, err := e.Hash()
	if err != nil {
		return graph.Layout{}, false, errs.Wrap(errs.ErrCodeInternal, err, "hash epic")
	}
	cacheKey := r.Keyer.LayoutKey(epicHash, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err := r.computeLayout(ctx, e, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, e *epic.Epic, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, e, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The epic is optional; it is only needed for DOT output of epic layouts.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, e *epic.Epic, opts Options) (map[string][]byte, bool, error) {
	if l.VizType != "" && opts.VizType == "" {
		opts.VizType = l.VizType
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderLayout(ctx, l, e, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, e *epic.Epic, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, e, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
