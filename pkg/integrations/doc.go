// Package integrations provides the shared HTTP client used by issue tracker
// integrations.
//
// # Overview
//
// Each tracker has its own subpackage built on [Client]:
//
//   - [github]: epics as GitHub issues with sub-issues
//
// # Client Pattern
//
// [Client] wraps net/http with:
//   - JSON response caching through [httputil.Cache]
//   - retry with exponential backoff for transient failures
//   - status mapping: 404 becomes [ErrNotFound], 401 an UNAUTHORIZED error,
//     429 (or an exhausted GitHub quota) an [errors.RateLimitedError]
//   - observability HTTP hooks for every request
//
// Subpackage clients typically wrap a fetch in [Client.Cached]:
//
//	err := c.Cached(ctx, key, refresh, &issue, func() error {
//	    return c.Get(ctx, url, &issue)
//	})
//
// # Errors
//
// [ErrNotFound] and [ErrNetwork] are sentinel errors; use errors.Is to test
// for them. Server errors are wrapped with [httputil.RetryableError].
package integrations
