package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/epicflow/pkg/buildinfo"
)

// DefaultTimeout bounds a single request to the issue tracker. Retries
// get their own budget.
const DefaultTimeout = 10 * time.Second

// Sentinel errors from the shared client. Tracker clients translate them
// into coded errors (see pkg/errors) with the resource they were fetching.
var (
	// ErrNotFound is returned for a 404.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient returns an HTTP client with [DefaultTimeout].
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// defaultHeaders are set on every request before client and per-request
// headers, which may override them.
func defaultHeaders() map[string]string {
	return map[string]string{"User-Agent": buildinfo.UserAgent()}
}

// URLEncode escapes s for a query string, e.g. a GitHub label filter.
func URLEncode(s string) string { return url.QueryEscape(s) }
