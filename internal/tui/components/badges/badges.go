package badges

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/consistency/internal/tracker"
)

var (
	iconStyle = lipgloss.NewStyle().
			Width(4)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	earned   []tracker.EarnedBadge
}

func New(earned []tracker.EarnedBadge, width, height int) Model {
	m := Model{viewport: viewport.New(width, height)}
	m.SetBadges(earned)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.earned) == 0 {
		return "No badges yet. Check in to earn your first one."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetBadges(earned []tracker.EarnedBadge) {
	m.earned = earned
	m.render()
}

func (m *Model) render() {
	var b strings.Builder
	for _, e := range m.earned {
		detail := e.Activity
		if e.AwardedOn != "" {
			detail += " · " + e.AwardedOn
		}
		if e.Retired {
			detail += " · retired"
		}
		fmt.Fprintf(&b, "%s%s %s\n",
			iconStyle.Render(e.Milestone.Icon),
			nameStyle.Render(e.Milestone.Name),
			detailStyle.Render(detail),
		)
	}
	m.viewport.SetContent(b.String())
}
