// Package tui is the interactive dashboard: today's activities with their
// streaks, earned badges and reminder settings.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consistency/internal/tracker"
	"github.com/julianstephens/consistency/internal/tui/components/activities"
	"github.com/julianstephens/consistency/internal/tui/components/badges"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateBadges
	StateReminders
	StateAddActivity
	StateEditReminders
	StateConfirmDelete
)

// tabCount is the number of top-level views reachable with tab.
const tabCount = 3

var tabTitles = []string{"Today", "Badges", "Reminders"}

type ActivityFormModel struct {
	Name  string
	Icon  string
	Color string
}

type ReminderFormModel struct {
	Enabled   bool
	Morning   string
	Afternoon string
	Evening   string
}

type Model struct {
	engine          *tracker.Engine
	state           SessionState
	keys            KeyMap
	help            help.Model
	activitiesModel activities.Model
	badgesModel     badges.Model
	form            *huh.Form
	activityForm    *ActivityFormModel
	reminderForm    *ReminderFormModel
	toDelete        string
	status          string
	err             error
	quitting        bool
	width           int
	height          int
}

func NewModel(engine *tracker.Engine) Model {
	return Model{
		engine:          engine,
		state:           StateToday,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		activitiesModel: activities.New(engine.Activities(), 0, 0),
		badgesModel:     badges.New(engine.Badges(), 0, 0),
	}
}

// refresh rebuilds every view from the engine.
func (m *Model) refresh() {
	m.activitiesModel.SetActivities(m.engine.Activities())
	m.badgesModel.SetBadges(m.engine.Badges())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	switch m.state {
	case StateToday:
		ak := activities.DefaultKeyMap()
		keys = append(keys, ak.Add, ak.CheckIn, ak.Delete)
	case StateReminders:
		keys = append(keys, m.keys.Edit)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		ak := activities.DefaultKeyMap()
		actions = []key.Binding{ak.Add, ak.CheckIn, ak.Delete}
	case StateReminders:
		actions = []key.Binding{m.keys.Edit}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
