package cli

import (
	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// Hint suggests what to do about err, or returns "" when there is nothing
// useful to add.
func Hint(err error) string {
	switch errs.GetCode(err) {
	case errs.ErrCodeRateLimited:
		return "set " + envGitHubToken + " to raise the GitHub rate limit, or wait and retry"
	case errs.ErrCodeUnauthorized:
		return "check that " + envGitHubToken + " holds a valid token"
	case errs.ErrCodeForbidden:
		return "the token in " + envGitHubToken + " cannot read this repository"
	case errs.ErrCodeInvalidConfig:
		return "run '" + appName + " config show' to see the configuration in effect"
	case errs.ErrCodeFileNotFound:
		return "fetch a snapshot first with '" + appName + " fetch owner/repo <number>'"
	case errs.ErrCodeNetwork, errs.ErrCodeTimeout:
		return "GitHub could not be reached; check the connection, or raise fetch --timeout"
	}
	return ""
}
