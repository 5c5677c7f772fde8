// Package httputil provides HTTP utilities for issue tracker clients.
//
// # Overview
//
//   - [Cache]: JSON response caching on top of a [cache.Cache] backend
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] decodes and encodes API responses as JSON and stores them through
// the shared cache backend (a file cache in the CLI, Redis in the server).
// Keys go through the backend's Keyer so the layout is identical everywhere:
//
//	c := httputil.NewCache(backend, keyer, "github:", cache.TTLHTTP)
//	var issue Issue
//	if ok, _ := c.Get(ctx, "acme/web#12", &issue); !ok {
//	    issue = fetchFromAPI()
//	    c.Set(ctx, "acme/web#12", issue)
//	}
//
// # Retry
//
// [Retry] re-runs a function while it fails with a [RetryableError].
// Clients wrap transient failures (network errors, 5xx responses) so that
// permanent ones (404, 401) fail fast:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.fetch(ctx)
//	})
//
// [DefaultBackoff] makes 3 attempts with a 1 second initial delay that
// doubles each retry. It also waits out GitHub rate limits whose Retry-After
// is at most 10 seconds; longer limits surface as
// a RateLimitedError so the CLI and the API can report them.
package httputil
