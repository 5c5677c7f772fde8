//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/epicflow/pkg/source"
)

// Set EPICFLOW_TEST_EPIC to an "owner/repo#N" epic readable with GITHUB_TOKEN.
func TestFetch_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	target := os.Getenv("EPICFLOW_TEST_EPIC")
	if token == "" || target == "" {
		t.Skip("GITHUB_TOKEN or EPICFLOW_TEST_EPIC not set, skipping integration test")
	}

	ref, err := source.ParseRef(target)
	if err != nil {
		t.Fatalf("ParseRef(%q): %v", target, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := NewClient(token, nil)
	e, err := client.Fetch(ctx, ref, true)
	if err != nil {
		t.Fatalf("Fetch(%s) error: %v", ref, err)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("fetched epic does not validate: %v", err)
	}
	t.Logf("%s: %d batches, %d tasks", e.Locator(), len(e.Batches), e.TaskCount())

	if _, err := client.ListEpics(ctx, ref.Owner, ref.Repo); err != nil {
		t.Errorf("ListEpics() error: %v", err)
	}
}
