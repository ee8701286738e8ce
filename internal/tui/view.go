package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/consistency/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = docStyle.Render(m.activitiesModel.View())
	case StateBadges:
		content = docStyle.Render(m.badgesModel.View())
	case StateReminders:
		content = docStyle.Render(m.viewReminders())
	case StateAddActivity, StateEditReminders:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.activeTab() == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab maps sub-states back to the tab they belong to.
func (m Model) activeTab() SessionState {
	switch m.state {
	case StateAddActivity, StateConfirmDelete:
		return StateToday
	case StateEditReminders:
		return StateReminders
	}
	return m.state
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewReminders() string {
	settings := m.engine.ReminderSettings()
	enabled := "off"
	if settings.Enabled {
		enabled = "on"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Reminders"), enabled)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Morning"), settings.Times.Morning)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Afternoon"), settings.Times.Afternoon)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Evening"), settings.Times.Evening)
	b.WriteString("\nPress 'e' to edit.")
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its check-in history?", m.toDelete)),
			"Earned badges are kept.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func metadata(fm *ActivityFormModel) models.Metadata {
	return models.Metadata{
		Icon:  strings.TrimSpace(fm.Icon),
		Color: strings.TrimSpace(fm.Color),
	}
}
