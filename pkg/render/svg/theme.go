package svg

import "github.com/matzehuels/epicflow/pkg/epic"

// Palette is the fill, stroke and text colour of one status.
type Palette struct {
	Fill   string
	Stroke string
	Text   string
}

// Theme holds every colour the renderer uses.
type Theme struct {
	FontFamily  string
	Background  string
	BatchFill   string
	BatchStroke string
	HeaderText  string
	ProgressBg  string
	ProgressFg  string
	Edge        string
	InterEdge   string
	BatchEdge   string
	Status      map[epic.Status]Palette
}

// DefaultTheme is a light theme with one hue per status.
var DefaultTheme = Theme{
	FontFamily:  "Inter, -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif",
	Background:  "#ffffff",
	BatchFill:   "#f8fafc",
	BatchStroke: "#cbd5e1",
	HeaderText:  "#0f172a",
	ProgressBg:  "#e2e8f0",
	ProgressFg:  "#10b981",
	Edge:        "#64748b",
	InterEdge:   "#6366f1",
	BatchEdge:   "#334155",
	Status: map[epic.Status]Palette{
		epic.StatusDone:       {Fill: "#ecfdf5", Stroke: "#10b981", Text: "#065f46"},
		epic.StatusInProgress: {Fill: "#eff6ff", Stroke: "#3b82f6", Text: "#1e3a8a"},
		epic.StatusReady:      {Fill: "#ffffff", Stroke: "#94a3b8", Text: "#0f172a"},
		epic.StatusBlocked:    {Fill: "#fef2f2", Stroke: "#ef4444", Text: "#7f1d1d"},
		epic.StatusUnknown:    {Fill: "#f8fafc", Stroke: "#cbd5e1", Text: "#475569"},
	},
}

func (t Theme) palette(status string) Palette {
	if p, ok := t.Status[epic.ParseStatus(status)]; ok {
		return p
	}
	return t.Status[epic.StatusUnknown]
}

// statusLabel is the footer text for a status.
func statusLabel(status string) string {
	switch s := epic.ParseStatus(status); s {
	case epic.StatusInProgress:
		return "in progress"
	default:
		return string(s)
	}
}
