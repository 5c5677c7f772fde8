package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const sampleEpicJSON = `{
  "id": 1,
  "number": 7,
  "title": "Checkout revamp",
  "owner": "acme",
  "repo": "web",
  "batches": [
    {"id": 10, "number": 10, "title": "Backend", "status": "in-progress", "tasks": [
      {"id": 11, "number": 11, "title": "Cart API", "status": "done"},
      {"id": 12, "number": 12, "title": "Payment API", "status": "ready", "depends_on": [11]}
    ]},
    {"id": 20, "number": 20, "title": "Frontend", "status": "blocked", "depends_on": [10], "tasks": [
      {"id": 21, "number": 21, "title": "Cart page", "status": "blocked", "depends_on": [12]}
    ]}
  ]
}`

// captureOutput redirects command output to a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := output
	output = &buf
	t.Cleanup(func() { output = prev })
	return &buf
}

// isolateHome points the cache and config directories into a temp dir so
// that tests never touch the user's files.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")
	return dir
}

func writeSnapshot(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sampleEpicJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the command tree with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureOutput(t)
	c := New(io.Discard, LogInfo)
	root := newRoot(c)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}
