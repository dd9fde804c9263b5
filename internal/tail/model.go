package tail

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#2980b9", Dark: "#3498db"})
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

type contentMsg struct {
	data []byte
	err  error
}

// Model is a bubbletea program that follows the run log in a scrollable
// viewport. Quit with q or ctrl+c.
type Model struct {
	follower *Follower
	viewport viewport.Model
	content  strings.Builder
	ready    bool
	err      error
}

// NewModel returns a Model following f.
func NewModel(f *Follower) *Model {
	return &Model{follower: f}
}

// Err reports the read error that terminated the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), tick(m.follower.Interval))
}

func tick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) poll() tea.Cmd {
	return func() tea.Msg {
		data, err := m.follower.Next()
		return contentMsg{data: data, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.content.String())
			m.viewport.GotoBottom()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}

	case tickMsg:
		return m, tea.Batch(m.poll(), tick(m.follower.Interval))

	case contentMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		if len(msg.data) > 0 {
			atBottom := m.viewport.AtBottom()
			m.content.Write(msg.data)
			if m.ready {
				m.viewport.SetContent(m.content.String())
				if atBottom {
					m.viewport.GotoBottom()
				}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	header := titleStyle.Render(m.follower.Path)
	footer := statusStyle.Render("following; q to quit")
	return header + "\n" + m.viewport.View() + "\n" + footer
}
