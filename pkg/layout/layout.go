package layout

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/epicflow/pkg/dag/ordering"
	"github.com/matzehuels/epicflow/pkg/epic"
)

// Engine computes layouts. It holds no per-layout state: the only thing it
// keeps between calls is the size estimator's memo table, which is keyed by
// content and safe to share. One Engine may serve concurrent callers.
type Engine struct {
	logger      *log.Logger
	sizes       *SizeEstimator
	orderer     ordering.Orderer
	concurrency int
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger for diagnostics. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSizeEstimator shares a size estimator between engines.
func WithSizeEstimator(s *SizeEstimator) Option {
	return func(e *Engine) {
		if s != nil {
			e.sizes = s
		}
	}
}

// WithOrderer overrides the row orderer named in [Config].
func WithOrderer(o ordering.Orderer) Option {
	return func(e *Engine) { e.orderer = o }
}

// WithConcurrency caps the number of batches laid out (and edges routed) at
// the same time. Values below 1 mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// NewEngine returns an engine with the given options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		sizes:  NewSizeEstimator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.concurrency < 1 {
		e.concurrency = runtime.GOMAXPROCS(0)
	}
	return e
}

// Sizes returns the engine's size estimator.
func (e *Engine) Sizes() *SizeEstimator { return e.sizes }

// ComputeLayout is a convenience wrapper around a fresh [Engine].
//
// cfg is normalized first: a zero spacing, padding or size means the
// default, not zero pixels. A layout with no canvas padding or touching rows
// is not expressible; use a small positive value such as 0.01 instead.
func ComputeLayout(ctx context.Context, ep *epic.Epic, cfg Config) (*Result, error) {
	return NewEngine().ComputeLayout(ctx, ep, cfg)
}

// ComputeLayout lays out an epic snapshot.
//
// Batches are laid out independently and concurrently, then packed, then
// every edge is routed against the final positions. The snapshot is never
// modified. Graph problems (cycles, stale references, duplicates) degrade
// gracefully and are reported in [Result.Diagnostics]; the only error is the
// context's, checked between stages.
//
// Zero fields of cfg take their defaults (see [Config.Normalize]). An epic
// without batches yields empty slices and a canvas of 2×CanvasPadding in
// each dimension.
func (e *Engine) ComputeLayout(ctx context.Context, ep *epic.Epic, cfg Config) (*Result, error) {
	cfg = cfg.Normalize()
	if ep == nil {
		ep = &epic.Epic{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batches := assignTasks(ep.Batches)
	order := e.orderFor(cfg)

	// Stage 1: inner layouts, one per batch.
	inner := make([]InnerLayout, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, b := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inner[i] = ComputeInnerLayout(b, cfg, e.sizes, order)
			e.logger.Debug("inner layout", "batch", b.Number, "tasks", len(b.Tasks),
				"width", inner[i].Width, "height", inner[i].Height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	byNumber := make(map[int]InnerLayout, len(inner))
	for _, il := range inner {
		byNumber[il.Batch] = il
	}

	// Stage 2: pack batches.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := *ep
	snapshot.Batches = batches
	edges := CollectEdges(&snapshot)
	outer := ComputeOuterLayout(batches, byNumber, edges, cfg)

	// Stage 3: route edges.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	routed, err := e.routeAll(ctx, edges, outer, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Batches:      outer.Batches,
		Tasks:        outer.Tasks,
		Edges:        routed,
		CanvasWidth:  outer.Width,
		CanvasHeight: outer.Height,
	}
	for _, il := range inner {
		res.Diagnostics.Cycles = append(res.Diagnostics.Cycles, il.Cycles...)
		res.Diagnostics.Crossings += il.Crossings
	}
	res.Diagnostics.Cycles = append(res.Diagnostics.Cycles, outer.Cycles...)
	for _, re := range routed {
		if !re.Routable() {
			res.Diagnostics.Unroutable = append(res.Diagnostics.Unroutable, re.ID)
		}
	}
	e.report(ep, res)
	return res, nil
}

func (e *Engine) routeAll(ctx context.Context, edges []Edge, outer OuterLayout, cfg Config) ([]RoutedEdge, error) {
	r := newRouter(outer.Tasks, outer.Batches, cfg)
	out := make([]RoutedEdge, len(edges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, ed := range edges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.route(ed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) orderFor(cfg Config) ordering.Orderer {
	if e.orderer != nil {
		return e.orderer
	}
	o, err := ordering.ByName(cfg.Ordering)
	if err != nil {
		e.logger.Warn("falling back to barycenter ordering", "err", err)
		return ordering.Barycenter{}
	}
	return o
}

func (e *Engine) report(ep *epic.Epic, res *Result) {
	for _, c := range res.Diagnostics.Cycles {
		e.logger.Warn("dependency cycle", "epic", ep.Locator(), "scope", c.Scope, "batch", c.Batch, "path", c.Path)
	}
	if n := len(res.Diagnostics.Unroutable); n > 0 {
		e.logger.Warn("unroutable edges", "epic", ep.Locator(), "count", n)
	}
	e.logger.Debug("layout complete", "epic", ep.Locator(),
		"batches", len(res.Batches), "tasks", len(res.Tasks), "edges", len(res.Edges),
		"width", res.CanvasWidth, "height", res.CanvasHeight)
}

// assignTasks drops repeated batches and makes every task belong to exactly
// one batch: a task listed in several batches stays in the first.
func assignTasks(batches []epic.Batch) []epic.Batch {
	batches = uniqueBatches(batches)
	owned := make(map[int]bool)
	out := make([]epic.Batch, len(batches))
	for i, b := range batches {
		tasks := make([]epic.Task, 0, len(b.Tasks))
		for _, t := range b.Tasks {
			if owned[t.Number] {
				continue
			}
			owned[t.Number] = true
			tasks = append(tasks, t)
		}
		b.Tasks = tasks
		out[i] = b
	}
	return out
}
