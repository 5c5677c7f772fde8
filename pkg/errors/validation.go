package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPathLength bounds snapshot and output paths. It matches PATH_MAX on
// Linux.
const maxPathLength = 4096

// ValidatePath checks a local snapshot or output path given on the command
// line. Absolute paths and ".." are allowed; empty paths, overlong paths and
// paths with control characters are not.
func ValidatePath(path string) error {
	switch {
	case strings.TrimSpace(path) == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d bytes)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path %q contains control characters", path)
	}
	return nil
}

var (
	// GitHub logins: alphanumerics and single hyphens, no leading hyphen.
	ownerRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)
	repoRegex  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// ValidateRepoRef splits an "owner/repo" reference and validates both halves
// against GitHub's naming rules.
func ValidateRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || owner == "" || repo == "" {
		return "", "", New(ErrCodeInvalidRepo, "repository must be owner/repo, got %q", ref)
	}
	if len(owner) > 39 || !ownerRegex.MatchString(owner) {
		return "", "", New(ErrCodeInvalidRepo, "invalid repository owner: %q", owner)
	}
	if len(repo) > 100 || !repoRegex.MatchString(repo) || repo == "." || repo == ".." {
		return "", "", New(ErrCodeInvalidRepo, "invalid repository name: %q", repo)
	}
	return owner, repo, nil
}

// ValidateIssueNumber rejects non-positive issue numbers.
func ValidateIssueNumber(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "issue number must be positive, got %d", n)
	}
	return nil
}
