package github

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/integrations"
	"github.com/matzehuels/epicflow/pkg/observability"
	"github.com/matzehuels/epicflow/pkg/source"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	// EpicLabel marks issues listed by [Client.ListEpics].
	EpicLabel = "epic"
)

// Client reads epics from GitHub. An epic is an issue whose sub-issues are
// batches; each batch's sub-issues are its tasks.
type Client struct {
	*integrations.Client
	baseURL     string
	concurrency int
}

// Option configures a [Client].
type Option func(*options)

type options struct {
	baseURL     string
	keyer       cache.Keyer
	ttl         time.Duration
	concurrency int
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a
// test server).
func WithBaseURL(url string) Option { return func(o *options) { o.baseURL = url } }

// WithKeyer sets the cache keyer; the API server passes a tenant-scoped one.
func WithKeyer(k cache.Keyer) Option { return func(o *options) { o.keyer = k } }

// WithCacheTTL overrides [cache.TTLHTTP].
func WithCacheTTL(ttl time.Duration) Option { return func(o *options) { o.ttl = ttl } }

// WithConcurrency bounds the number of batches fetched in parallel.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty token for unauthenticated requests (lower rate limits) and a
// nil backend to disable response caching.
func NewClient(token string, backend cache.Cache, opts ...Option) *Client {
	o := options{baseURL: defaultBaseURL, ttl: cache.TTLHTTP, concurrency: 4}
	for _, opt := range opts {
		opt(&o)
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:      integrations.NewClient(backend, o.keyer, "github:", o.ttl, headers),
		baseURL:     o.baseURL,
		concurrency: max(o.concurrency, 1),
	}
}

// Name implements [source.Repository].
func (c *Client) Name() string { return string(source.KindGitHub) }

// Fetch implements [source.Repository]: it reads the epic issue, its batches
// and their tasks, and returns the normalized snapshot. If refresh is true,
// cached responses are bypassed.
func (c *Client) Fetch(ctx context.Context, ref source.Ref, refresh bool) (*epic.Epic, error) {
	if ref.Owner == "" || ref.Repo == "" {
		return nil, errs.New(errs.ErrCodeInvalidRepo, "github ref needs owner/repo")
	}
	if err := errs.ValidateIssueNumber(ref.Number); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, c.Name(), ref.String())
	start := time.Now()

	e, err := c.fetch(ctx, ref, refresh)
	taskCount := 0
	if e != nil {
		taskCount = e.TaskCount()
	}
	hooks.OnFetchComplete(ctx, c.Name(), ref.String(), taskCount, time.Since(start), err)
	return e, err
}

func (c *Client) fetch(ctx context.Context, ref source.Ref, refresh bool) (*epic.Epic, error) {
	root, err := c.issue(ctx, ref.Owner, ref.Repo, ref.Number, refresh)
	if err != nil {
		return nil, err
	}
	batchIssues, err := c.subIssues(ctx, ref.Owner, ref.Repo, ref.Number, refresh)
	if err != nil {
		return nil, err
	}

	batches := make([]epic.Batch, len(batchIssues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, bi := range batchIssues {
		g.Go(func() error {
			taskIssues, err := c.subIssues(gctx, ref.Owner, ref.Repo, bi.Number, refresh)
			if err != nil {
				return err
			}
			b := epic.Batch{
				ID:        bi.ID,
				Number:    bi.Number,
				Title:     bi.Title,
				Status:    statusOf(bi),
				DependsOn: ParseDependencies(bi.Body),
				Tasks:     make([]epic.Task, 0, len(taskIssues)),
			}
			for _, ti := range taskIssues {
				b.Tasks = append(b.Tasks, epic.Task{
					ID:        ti.ID,
					Number:    ti.Number,
					Title:     ti.Title,
					Status:    statusOf(ti),
					DependsOn: ParseDependencies(ti.Body),
				})
			}
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e := &epic.Epic{
		ID:      root.ID,
		Number:  root.Number,
		Title:   root.Title,
		Owner:   ref.Owner,
		Repo:    ref.Repo,
		Batches: batches,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.Normalize()
	return e, nil
}

// ListEpics implements [source.Lister]: open issues labelled "epic", most
// recently updated first.
func (c *Client) ListEpics(ctx context.Context, owner, repo string) ([]source.Summary, error) {
	key := "epics:" + owner + "/" + repo
	var issues []issue
	err := c.Cached(ctx, key, false, &issues, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/issues?labels=%s&state=open&sort=updated&per_page=%d",
			c.baseURL, owner, repo, integrations.URLEncode(EpicLabel), perPage)
		issues = nil
		return c.Get(ctx, url, &issues)
	})
	if err != nil {
		return nil, c.wrap(err, "list epics in %s/%s", owner, repo)
	}

	out := make([]source.Summary, 0, len(issues))
	for _, i := range issues {
		if i.isPR() {
			continue
		}
		out = append(out, source.Summary{Number: i.Number, Title: i.Title, State: i.State, UpdatedAt: i.UpdatedAt})
	}
	return out, nil
}

func (c *Client) issue(ctx context.Context, owner, repo string, number int, refresh bool) (*issue, error) {
	key := "issues:" + owner + "/" + repo + "#" + strconv.Itoa(number)
	var data issue
	err := c.Cached(ctx, key, refresh, &data, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, owner, repo, number)
		return c.Get(ctx, url, &data)
	})
	if err != nil {
		return nil, c.wrap(err, "issue %s/%s#%d", owner, repo, number)
	}
	return &data, nil
}

// subIssues returns all sub-issues of an issue, following pagination.
func (c *Client) subIssues(ctx context.Context, owner, repo string, number int, refresh bool) ([]issue, error) {
	key := "sub_issues:" + owner + "/" + repo + "#" + strconv.Itoa(number)
	var all []issue
	err := c.Cached(ctx, key, refresh, &all, func() error {
		all = nil
		for page := 1; ; page++ {
			url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/sub_issues?per_page=%d&page=%d",
				c.baseURL, owner, repo, number, perPage, page)
			var batch []issue
			if err := c.Get(ctx, url, &batch); err != nil {
				return err
			}
			all = append(all, batch...)
			if len(batch) < perPage {
				return nil
			}
		}
	})
	if err != nil {
		return nil, c.wrap(err, "sub-issues of %s/%s#%d", owner, repo, number)
	}
	return all, nil
}

// wrap attaches a structured code to transport errors. Errors that already
// carry one (auth, rate limit) pass through.
func (c *Client) wrap(err error, format string, args ...any) error {
	var rl *errs.RateLimitedError
	switch {
	case errors.As(err, &rl), errs.GetCode(err) != "":
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return errs.Wrap(errs.ErrCodeIssueNotFound, err, format, args...)
	default:
		return errs.Wrap(errs.ErrCodeNetwork, err, format, args...)
	}
}

var (
	_ source.Repository = (*Client)(nil)
	_ source.Lister     = (*Client)(nil)
)
