package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/epicflow/pkg/source"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleSummaries() []source.Summary {
	return []source.Summary{
		{Number: 7, Title: "Checkout revamp", State: "open"},
		{Number: 9, Title: "Search", State: "open"},
		{Number: 15, Title: "Onboarding", State: "open"},
	}
}

func TestEpicListModel_Navigation(t *testing.T) {
	var m tea.Model = NewEpicListModel("acme/web", sampleSummaries())

	for _, k := range []string{"down", "j", "j", "up", "k", "k"} {
		m, _ = m.Update(keyMsg(k))
	}
	if got := m.(EpicListModel).Cursor; got != 0 {
		t.Errorf("cursor after moves = %d, want 0", got)
	}

	m, _ = m.Update(keyMsg("down"))
	m, cmd := m.Update(keyMsg("enter"))
	sel := m.(EpicListModel).Selected
	if sel == nil || sel.Number != 9 {
		t.Fatalf("selected = %+v, want #9", sel)
	}
	if cmd == nil {
		t.Fatal("enter did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter command is not tea.Quit")
	}
}

func TestEpicListModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := NewEpicListModel("acme/web", sampleSummaries()).Update(keyMsg(k))
		if m.(EpicListModel).Selected != nil {
			t.Errorf("%s: selection made on quit", k)
		}
		if cmd == nil {
			t.Errorf("%s: no quit command", k)
		}
	}
}

func TestEpicListModel_Scrolls(t *testing.T) {
	m := NewEpicListModel("acme/web", sampleSummaries())
	m.Height = 2

	var tm tea.Model = m
	tm, _ = tm.Update(keyMsg("down"))
	tm, _ = tm.Update(keyMsg("down"))
	got := tm.(EpicListModel)
	if got.Cursor != 2 || got.Offset != 1 {
		t.Errorf("cursor/offset = %d/%d, want 2/1", got.Cursor, got.Offset)
	}
	if view := got.View(); !strings.Contains(view, "Onboarding") || strings.Contains(view, "Checkout revamp") {
		t.Errorf("view does not show the scrolled window:\n%s", view)
	}
}

func TestEpicListModel_EmptyEnter(t *testing.T) {
	m, cmd := NewEpicListModel("acme/web", nil).Update(keyMsg("enter"))
	if m.(EpicListModel).Selected != nil || cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want string
	}{
		{"", "—"},
		{"yesterday", "yesterday"},
		{"2026-10-18T11:30:00Z", "30m ago"},
		{"2026-10-18T09:00:00Z", "3h ago"},
		{"2026-10-16T12:00:00Z", "2d ago"},
		{"2026-01-05T12:00:00Z", "Jan 5, 2026"},
	}
	for _, tt := range tests {
		if got := relativeTime(tt.in, now); got != tt.want {
			t.Errorf("relativeTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEpicListModel_Filter(t *testing.T) {
	var m tea.Model = NewEpicListModel("acme/web", sampleSummaries())
	for _, k := range []string{"/", "s", "E"} {
		m, _ = m.Update(keyMsg(k))
	}
	got := m.(EpicListModel)
	if got.Filter != "sE" {
		t.Fatalf("filter = %q, want %q", got.Filter, "sE")
	}
	// "se" matches "Search" only; "Checkout revamp" has no "se".
	if v := got.Visible(); len(v) != 1 || v[0].Number != 9 {
		t.Fatalf("visible = %+v, want only #9", v)
	}
	if !strings.Contains(got.View(), "/sE") {
		t.Errorf("view does not show the filter prompt:\n%s", got.View())
	}

	// q is part of the filter while typing, not a quit key.
	m, cmd := m.Update(keyMsg("q"))
	if cmd != nil {
		t.Fatal("q quit while filtering")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, cmd = m.Update(keyMsg("enter"))
	sel := m.(EpicListModel).Selected
	if sel == nil || sel.Number != 9 || cmd == nil {
		t.Fatalf("enter on a single match should select it, got %+v", sel)
	}
}

func TestEpicListModel_FilterByNumber(t *testing.T) {
	m := NewEpicListModel("acme/web", sampleSummaries())
	m.Filter = "#1"
	if v := m.Visible(); len(v) != 1 || v[0].Number != 15 {
		t.Errorf("visible = %+v, want only #15", v)
	}
	m.Filter = "zzz"
	if len(m.Visible()) != 0 || !strings.Contains(m.View(), "no epics match") {
		t.Error("non-matching filter should show an empty list")
	}
}

func TestEpicListModel_FilterEscClears(t *testing.T) {
	var m tea.Model = NewEpicListModel("acme/web", sampleSummaries())
	for _, k := range []string{"/", "x", "esc"} {
		m, _ = m.Update(keyMsg(k))
	}
	got := m.(EpicListModel)
	if got.Filter != "" || len(got.Visible()) != 3 {
		t.Errorf("esc should clear the filter, got %q", got.Filter)
	}
	// A second esc leaves the picker.
	if _, cmd := got.Update(keyMsg("esc")); cmd == nil {
		t.Error("esc outside filter mode should quit")
	}
}

func TestEpicListModel_JumpKeys(t *testing.T) {
	var m tea.Model = NewEpicListModel("acme/web", sampleSummaries())
	m, _ = m.Update(keyMsg("G"))
	if got := m.(EpicListModel).Cursor; got != 2 {
		t.Errorf("G cursor = %d, want 2", got)
	}
	m, _ = m.Update(keyMsg("g"))
	if got := m.(EpicListModel).Cursor; got != 0 {
		t.Errorf("g cursor = %d, want 0", got)
	}
}
