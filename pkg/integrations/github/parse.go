package github

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/epicflow/pkg/epic"
)

var (
	// The capture ends at the first token that is neither a reference nor
	// a separator, so prose after the list is not read as dependencies.
	depLine  = regexp.MustCompile(`(?i)\b(?:depends\s+on|blocked\s+by)\b\s*:?\s*((?:#\d+\s*(?:(?:,|&|\band\b)\s*)?)+)`)
	issueRef = regexp.MustCompile(`#(\d+)`)
)

// ParseDependencies extracts the issue numbers referenced on "Depends on #N"
// and "Blocked by #N" lines of an issue body. A line may list several
// references ("Depends on #3, #4 and #7"); references after the end of the
// list ("Depends on #3. See #9") are ignored. Order follows first
// appearance; repeats are dropped.
func ParseDependencies(body string) []int {
	var out []int
	seen := make(map[int]bool)
	for _, line := range strings.Split(body, "\n") {
		m := depLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, ref := range issueRef.FindAllStringSubmatch(m[1], -1) {
			n, err := strconv.Atoi(ref[1])
			if err != nil || n <= 0 || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// StatusOf maps an issue's state and labels to a status.
//
// Closed issues are done, or blocked when closed as not planned. For open
// issues the first label that names a status wins ("in progress",
// "blocked", "ready"...); an open issue without such a label is ready.
func StatusOf(state, stateReason string, labels []string) epic.Status {
	if strings.EqualFold(state, "closed") {
		if strings.EqualFold(stateReason, "not_planned") {
			return epic.StatusBlocked
		}
		return epic.StatusDone
	}
	for _, l := range labels {
		l = strings.TrimPrefix(strings.ToLower(l), "status:")
		if s := epic.ParseStatus(l); s != epic.StatusUnknown && s != epic.StatusDone {
			return s
		}
	}
	return epic.StatusReady
}

func statusOf(i issue) epic.Status {
	names := make([]string, len(i.Labels))
	for k, l := range i.Labels {
		names[k] = l.Name
	}
	return StatusOf(i.State, i.StateReason, names)
}
