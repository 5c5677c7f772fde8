// Package cli implements the epicflow command-line interface.
//
// Commands are built with cobra and log through charmbracelet/log:
//   - layout: compute a layout.json from a snapshot or a GitHub epic
//   - render: write SVG, PNG, PDF, DOT or JSON
//   - fetch: download a GitHub epic into a snapshot file
//   - edit: add or remove dependencies and move tasks in a snapshot
//   - serve: run the HTTP API
//   - cache, config: manage the cache directory and layout settings
//
// --verbose (-v) switches to debug logging, which also reports cache hits
// and stage timings. --log-format selects text, json or logfmt output for
// log lines; the styled status lines on stdout are unaffected.
package cli

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// logFormats maps --log-format values to formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// SetLogFormat switches the logger's output format. Machine formats use
// RFC 3339 timestamps.
func (c *CLI) SetLogFormat(name string) error {
	f, ok := logFormats[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(logFormats))
		for n := range logFormats {
			names = append(names, n)
		}
		slices.Sort(names)
		return errs.New(errs.ErrCodeInvalidInput, "unknown log format %q (want one of %s)", name, strings.Join(names, ", "))
	}
	c.Logger.SetFormatter(f)
	if f != log.TextFormatter {
		c.Logger.SetTimeFormat(time.RFC3339)
	}
	return nil
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, as the
// "took" field.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}
