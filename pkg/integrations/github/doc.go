// Package github reads epics from GitHub issues.
//
// # Overview
//
// An epic is a GitHub issue. Its sub-issues are batches, and each batch's
// sub-issues are tasks:
//
//	#1 Checkout revamp          (epic)
//	├── #10 Backend             (batch)
//	│   ├── #11 Cart API        (task)
//	│   └── #12 Payment API     (task, body: "Depends on #11")
//	└── #20 Frontend            (batch, body: "Blocked by #10")
//	    └── #21 Cart page       (task)
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"), backend)
//	e, err := client.Fetch(ctx, source.Ref{Kind: source.KindGitHub, Owner: "acme", Repo: "web", Number: 1}, false)
//
// # Dependencies
//
// [ParseDependencies] reads "Depends on #N" and "Blocked by #N" lines from
// issue bodies. Task bodies yield task dependencies and batch bodies yield
// batch dependencies.
//
// # Status
//
// [StatusOf] maps issue state and labels to a status: closed issues are done
// (or blocked when closed as not planned); open issues take the first status
// label ("in progress", "blocked") and default to ready.
//
// # Authentication
//
// A GitHub token is optional but recommended to avoid rate limits. Without a
// token, the client is limited to 60 requests/hour. With a token, the limit
// is 5000 requests/hour. An exhausted quota surfaces as an
// [errors.RateLimitedError] with the time until reset.
//
// # Caching
//
// Responses are cached through the backend passed to [NewClient]. Pass
// refresh=true to [Client.Fetch] to bypass the cache.
package github
