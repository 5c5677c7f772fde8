package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/epicflow/pkg/epic"
)

// output receives all status lines; tests swap it for a buffer.
var output io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, done tasks
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, blocked tasks
	colorBlue   = lipgloss.Color("75")  // Light blue - links, in-progress tasks
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// statusStyles colour task states the way the SVG renderer does.
var statusStyles = map[epic.Status]lipgloss.Style{
	epic.StatusDone:       lipgloss.NewStyle().Foreground(colorGreen),
	epic.StatusInProgress: lipgloss.NewStyle().Foreground(colorBlue),
	epic.StatusReady:      lipgloss.NewStyle().Foreground(colorWhite),
	epic.StatusBlocked:    lipgloss.NewStyle().Foreground(colorRed),
	epic.StatusUnknown:    lipgloss.NewStyle().Foreground(colorDim),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(output, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(output, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(output, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(output, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed detail line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(output, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(output, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(output, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// stats is what a command reports about the epic it processed.
type stats struct {
	batches, tasks, edges int
	cached                bool
}

// printStats prints epic statistics on a single line, e.g.
// "3 batches · 12 tasks · 9 edges · cached".
func printStats(s stats) {
	var parts []string
	if s.batches > 0 {
		parts = append(parts, plural(s.batches, "batch", "batches"))
	}
	if s.tasks > 0 {
		parts = append(parts, plural(s.tasks, "task", "tasks"))
	}
	if s.edges > 0 {
		parts = append(parts, plural(s.edges, "edge", "edges"))
	}

	status, statusStyle := iconFresh, styleComputed
	if s.cached {
		status, statusStyle = iconCached, styleCached
	}

	rendered := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		rendered = append(rendered, StyleDim.Render(p))
	}
	rendered = append(rendered, statusStyle.Render(status))
	fmt.Fprintln(output, "  "+strings.Join(rendered, StyleDim.Render(" · ")))
}

// printProgress prints per-batch completion, one line per batch.
func printProgress(e *epic.Epic) {
	for _, b := range e.Batches {
		done := 0
		for _, t := range b.Tasks {
			if t.Status == epic.StatusDone {
				done++
			}
		}
		style, ok := statusStyles[b.Status]
		if !ok {
			style = statusStyles[epic.StatusUnknown]
		}
		fmt.Fprintf(output, "  %s %s %s\n",
			StyleDim.Render(fmt.Sprintf("#%-5d", b.Number)),
			style.Render(fmt.Sprintf("%3d%%", b.Progress)),
			StyleValue.Render(b.Title)+StyleDim.Render(fmt.Sprintf("  (%d/%d done)", done, len(b.Tasks))))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(output, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(output)
}
