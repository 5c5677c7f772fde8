package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/epicflow/pkg/source"
)

var (
	pickerHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	pickerCursor   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	pickerRow      = lipgloss.NewStyle().Foreground(colorWhite)
	pickerMuted    = lipgloss.NewStyle().Foreground(colorDim)
	pickerFilterOn = lipgloss.NewStyle().Foreground(colorYellow)
)

// EpicListModel is the bubbletea model behind `epicflow fetch owner/repo`
// without an issue number. Typing / starts a filter on number and title.
type EpicListModel struct {
	Repo     string
	Epics    []source.Summary
	Selected *source.Summary

	// Cursor and Offset index into the filtered list.
	Cursor int
	Offset int
	Height int

	Filter    string
	filtering bool
}

// NewEpicListModel creates a picker over epics.
func NewEpicListModel(repo string, epics []source.Summary) EpicListModel {
	return EpicListModel{Repo: repo, Epics: epics, Height: 15}
}

func (m EpicListModel) Init() tea.Cmd { return nil }

// Visible returns the epics matching Filter.
func (m EpicListModel) Visible() []source.Summary {
	if m.Filter == "" {
		return m.Epics
	}
	q := strings.ToLower(strings.TrimPrefix(m.Filter, "#"))
	var out []source.Summary
	for _, ep := range m.Epics {
		if strings.HasPrefix(strconv.Itoa(ep.Number), q) || strings.Contains(strings.ToLower(ep.Title), q) {
			out = append(out, ep)
		}
	}
	return out
}

func (m EpicListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.scrollTo(m.Cursor)
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			m.scrollTo(m.Cursor - 1)
		case "down", "j":
			m.scrollTo(m.Cursor + 1)
		case "home", "g":
			m.scrollTo(0)
		case "end", "G":
			m.scrollTo(len(m.Visible()) - 1)
		case "enter":
			return m.choose()
		}
	}
	return m, nil
}

func (m EpicListModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.filtering, m.Filter = false, ""
	case tea.KeyEnter:
		m.filtering = false
		if len(m.Visible()) == 1 {
			return m.choose()
		}
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
		}
	case tea.KeyUp:
		m.scrollTo(m.Cursor - 1)
		return m, nil
	case tea.KeyDown:
		m.scrollTo(m.Cursor + 1)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.Filter += string(msg.Runes)
	default:
		return m, nil
	}
	m.Cursor, m.Offset = 0, 0
	return m, nil
}

func (m EpicListModel) choose() (tea.Model, tea.Cmd) {
	visible := m.Visible()
	if len(visible) == 0 {
		return m, nil
	}
	selected := visible[m.Cursor]
	m.Selected = &selected
	return m, tea.Quit
}

// scrollTo moves the cursor to i, clamped to the filtered list, and keeps it
// inside the window.
func (m *EpicListModel) scrollTo(i int) {
	n := len(m.Visible())
	m.Cursor = max(min(i, n-1), 0)
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m EpicListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Epic"))
	b.WriteString(StyleDim.Render("  " + m.Repo))
	b.WriteString("\n")
	switch {
	case m.filtering:
		b.WriteString(pickerFilterOn.Render("/" + m.Filter + "▏"))
	case m.Filter != "":
		b.WriteString(pickerMuted.Render("filter: " + m.Filter + "  ↑/↓ navigate  ⏎ select  / edit  q quit"))
	default:
		b.WriteString(pickerMuted.Render("↑/↓ navigate  ⏎ select  / filter  q quit"))
	}
	b.WriteString("\n\n")

	visible := m.Visible()
	end := min(m.Offset+m.Height, len(visible))
	rows := make([][]string, 0, max(end-m.Offset, 0))
	for i := m.Offset; i < end; i++ {
		ep := visible[i]
		marker := "  "
		if i == m.Cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{marker, "#" + strconv.Itoa(ep.Number), ep.Title, formatRelativeTime(ep.UpdatedAt)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(pickerMuted).
		Headers("", "Epic", "Title", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return pickerHeader
			case m.Offset+row == m.Cursor:
				return pickerCursor
			case col == 3:
				return pickerMuted
			}
			return pickerRow
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(pickerMuted.Render("  no epics match"))
	} else {
		b.WriteString(pickerMuted.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(visible))))
	}
	return b.String()
}

func formatRelativeTime(s string) string {
	return relativeTime(s, time.Now())
}

// relativeTime renders an RFC 3339 timestamp as "5m ago" style text,
// falling back to a date after a week. Unparseable input is returned as is.
func relativeTime(s string, now time.Time) string {
	if s == "" {
		return "—"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	switch d := now.Sub(t); {
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h ago"
	case d < 7*24*time.Hour:
		return strconv.Itoa(int(d.Hours()/24)) + "d ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}
