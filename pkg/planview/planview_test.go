package planview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelAdvancesThroughSteps(t *testing.T) {
	m := New("Installing A", []string{"D", "B", "C", "A"}, 0)

	for i := 1; i < 4; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, nextMsg{})
		if m.Current() != i {
			t.Errorf("After %d steps current = %d", i, m.Current())
		}
		if isQuit(cmd) {
			t.Fatalf("Quit before the last step at %d", i)
		}
	}

	m, cmd := update(t, m, nextMsg{})
	if !m.Done() {
		t.Error("Expected model to be done after the last step")
	}
	if !isQuit(cmd) {
		t.Error("Expected quit after the last step")
	}

	// further ticks are ignored
	m, cmd = update(t, m, nextMsg{})
	if cmd != nil || !m.Done() {
		t.Error("Expected ticks after completion to be ignored")
	}
}

func TestModelKeys(t *testing.T) {
	m := New("Installing A", []string{"D", "A"}, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Current() != 1 {
		t.Errorf("Expected enter to advance, current = %d", m.Current())
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("Expected q to quit")
	}
}

func TestModelEmptyPlan(t *testing.T) {
	m := New("Nothing", nil, 0)
	if !m.Done() {
		t.Error("Expected empty plan to be done")
	}
	if !isQuit(m.Init()) {
		t.Error("Expected empty plan to quit on init")
	}
	if !strings.Contains(m.View(), "Nothing to install") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}
}

func TestModelView(t *testing.T) {
	m := New("Installing A", []string{"D", "B", "A"}, 0)
	m, _ = update(t, m, nextMsg{})

	view := m.View()
	for _, want := range []string{"Installing A", "1/3 packages", "D", "B", "A"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view:\n%s", want, view)
		}
	}
}
