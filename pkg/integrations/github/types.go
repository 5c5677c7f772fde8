package github

// issue is the subset of the GitHub issue payload epicflow reads. The same
// shape is returned by the issue, sub-issue and issue list endpoints.
type issue struct {
	ID          int64   `json:"id"`
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	State       string  `json:"state"`        // "open" or "closed"
	StateReason string  `json:"state_reason"` // "completed", "not_planned", "reopened" or ""
	Body        string  `json:"body"`
	Labels      []label `json:"labels"`
	HTMLURL     string  `json:"html_url"`
	UpdatedAt   string  `json:"updated_at"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
}

type label struct {
	Name string `json:"name"`
}

// isPR reports whether the list entry is a pull request; the issues API
// returns both.
func (i issue) isPR() bool { return i.PullRequest != nil }
