package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consistency/internal/tui/components/activities"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		// tabs, status line and help
		m.activitiesModel.SetSize(size.Width-4, size.Height-6)
		m.badgesModel.SetSize(size.Width-4, size.Height-6)
		return m, nil
	}

	switch m.state {
	case StateAddActivity:
		return m.updateActivityForm(msg)
	case StateEditReminders:
		return m.updateReminderForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case activities.AddActivityMsg:
		m.activityForm = &ActivityFormModel{}
		m.form = NewActivityForm(m.activityForm)
		m.state = StateAddActivity
		return m, m.form.Init()

	case activities.CheckInMsg:
		m.checkIn(msg.Name)
		return m, nil

	case activities.DeleteActivityMsg:
		m.toDelete = msg.Name
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			return m, nil
		case m.state == StateReminders && key.Matches(msg, m.keys.Edit):
			settings := m.engine.ReminderSettings()
			m.reminderForm = &ReminderFormModel{
				Enabled:   settings.Enabled,
				Morning:   settings.Times.Morning,
				Afternoon: settings.Times.Afternoon,
				Evening:   settings.Times.Evening,
			}
			m.form = NewReminderForm(m.reminderForm)
			m.state = StateEditReminders
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.activitiesModel, cmd = m.activitiesModel.Update(msg)
	case StateBadges:
		m.badgesModel, cmd = m.badgesModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) setResult(status string, err error) {
	m.status = status
	m.err = err
}

func (m *Model) reload() {
	if err := m.engine.Reload(context.Background()); err != nil {
		m.setResult("", err)
		return
	}
	m.refresh()
	m.setResult("Reloaded", nil)
}

func (m *Model) checkIn(name string) {
	res, err := m.engine.CheckIn(context.Background(), name)
	if err != nil {
		m.setResult("", err)
		return
	}
	m.refresh()

	if res.AlreadyCheckedIn {
		m.setResult(fmt.Sprintf("%s already checked in today", name), nil)
		return
	}
	status := fmt.Sprintf("✅ %s: 🔥 %d day streak", name, res.Current)
	if len(res.NewBadges) > 0 {
		var earned []string
		for _, award := range res.NewBadges {
			earned = append(earned, award.Milestone.Icon+" "+award.Milestone.Name)
		}
		status += " | new: " + strings.Join(earned, ", ")
	}
	m.setResult(status, nil)
}

// updateForm forwards msg to the active form. esc returns to back.
func (m *Model) updateForm(msg tea.Msg, back SessionState) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = back
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateAborted {
		m.state = back
	}
	return cmd
}

func (m Model) updateActivityForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.updateForm(msg, StateToday)
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	err := m.engine.AddActivity(context.Background(), m.activityForm.Name, metadata(m.activityForm))
	if err != nil {
		m.setResult("", err)
		m.form.State = huh.StateNormal
		return m, cmd
	}
	m.refresh()
	m.setResult(fmt.Sprintf("Added %s", strings.TrimSpace(m.activityForm.Name)), nil)
	m.state = StateToday
	return m, cmd
}

func (m Model) updateReminderForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.updateForm(msg, StateReminders)
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	settings := m.engine.ReminderSettings()
	settings.Enabled = m.reminderForm.Enabled
	settings.Times.Morning = m.reminderForm.Morning
	settings.Times.Afternoon = m.reminderForm.Afternoon
	settings.Times.Evening = m.reminderForm.Evening
	if err := m.engine.SetReminderSettings(context.Background(), settings); err != nil {
		m.setResult("", err)
		m.form.State = huh.StateNormal
		return m, cmd
	}
	m.setResult("Reminder settings saved", nil)
	m.state = StateReminders
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.engine.DeleteActivity(context.Background(), m.toDelete); err != nil {
			m.setResult("", err)
		} else {
			m.refresh()
			m.setResult(fmt.Sprintf("Deleted %s", m.toDelete), nil)
		}
		m.toDelete = ""
		m.state = StateToday
	case key.Matches(keyMsg, m.keys.Cancel):
		m.toDelete = ""
		m.state = StateToday
	}
	return m, nil
}
