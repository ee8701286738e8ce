package activities

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/consistency/internal/streak"
	"github.com/julianstephens/consistency/internal/tracker"
)

type AddActivityMsg struct{}

type CheckInMsg struct {
	Name string
}

type DeleteActivityMsg struct {
	Name string
}

type Item struct {
	Activity tracker.ActivityStatus
}

func (i Item) Title() string {
	mark := "○"
	if i.Activity.Status == streak.CheckedInToday {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Activity.Icon, i.Activity.Name)
}

func (i Item) Description() string {
	a := i.Activity
	desc := fmt.Sprintf("🔥 %d | best %d | %s", a.Current, a.Longest, Week(a.Week))
	if a.Status == streak.AtRisk {
		desc += " | at risk"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Activity.Name }

// Week renders the last seven days, oldest first.
func Week(days []bool) string {
	var b strings.Builder
	for _, done := range days {
		if done {
			b.WriteString("■")
		} else {
			b.WriteString("□")
		}
	}
	return b.String()
}

type KeyMap struct {
	Add     key.Binding
	CheckIn key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c/space", "check in"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(activities []tracker.ActivityStatus, width, height int) Model {
	l := list.New(toItems(activities), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func toItems(activities []tracker.ActivityStatus) []list.Item {
	items := make([]list.Item, len(activities))
	for i, a := range activities {
		items[i] = Item{Activity: a}
	}
	return items
}

func (m *Model) SetActivities(activities []tracker.ActivityStatus) {
	m.list.SetItems(toItems(activities))
}

// Selected returns the highlighted activity name, if any.
func (m Model) Selected() (string, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Activity.Name, true
	}
	return "", false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddActivityMsg{} }
		case key.Matches(msg, m.keys.CheckIn):
			if name, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CheckInMsg{Name: name} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if name, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteActivityMsg{Name: name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No activities yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
