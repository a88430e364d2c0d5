// Package planview is a terminal UI that walks through an installation
// order one package at a time.
package planview

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle     = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).Width(52)
)

// DefaultInterval is how long each step stays current before advancing
const DefaultInterval = 600 * time.Millisecond

type nextMsg struct{}

// Model steps through a list of packages. Enter advances immediately,
// q or ctrl+c quits.
type Model struct {
	sp       spinner.Model
	prog     progress.Model
	title    string
	steps    []string
	current  int
	interval time.Duration
	done     bool
}

// New returns a Model for steps. A non-positive interval disables
// automatic advancing.
func New(title string, steps []string, interval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Line
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 36
	return Model{
		sp:       s,
		prog:     p,
		title:    title,
		steps:    steps,
		interval: interval,
		done:     len(steps) == 0,
	}
}

// Run shows the UI on out until every step is done or the user quits
func Run(title string, steps []string, out io.Writer) error {
	p := tea.NewProgram(New(title, steps, DefaultInterval), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("plan viewer failed: %w", err)
	}
	return nil
}

// Done reports whether every step has been shown
func (m Model) Done() bool {
	return m.done
}

// Current returns the index of the step in progress
func (m Model) Current() int {
	return m.current
}

func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return tea.Batch(m.sp.Tick, m.scheduleNext())
}

func (m Model) scheduleNext() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return nextMsg{} })
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.current < len(m.steps)-1 {
		m.current++
		return m, m.scheduleNext()
	}
	m.done = true
	return m, tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case nextMsg:
		if m.done {
			return m, nil
		}
		return m.advance()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
			return m.advance()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	total := len(m.steps)
	if total == 0 {
		b.WriteString(subStyle.Render("Nothing to install."))
		return boxStyle.Render(b.String()) + "\n"
	}

	finished := m.current
	if m.done {
		finished = total
	}
	b.WriteString(subStyle.Render(fmt.Sprintf("%d/%d packages", finished, total)))
	b.WriteString("\n\n")

	for i, name := range m.steps {
		switch {
		case i < finished:
			b.WriteString(doneStyle.Render("✓ " + name))
		case i == m.current:
			b.WriteString(m.sp.View() + " " + name)
		default:
			b.WriteString(pendingStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.prog.ViewAs(float64(finished) / float64(total)))
	return boxStyle.Render(b.String()) + "\n"
}
