package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consistency/internal/reminder"
)

func NewActivityForm(fm *ActivityFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("activity name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Placeholder("🎯").
				Value(&fm.Icon),
			huh.NewInput().
				Title("Color").
				Placeholder("#6366f1").
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateSlotTime(s string) error {
	_, _, err := reminder.ParseSlotTime(s)
	return err
}

func NewReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reminders enabled").
				Value(&fm.Enabled),
			huh.NewInput().
				Title("Morning (HH:MM)").
				Value(&fm.Morning).
				Validate(validateSlotTime),
			huh.NewInput().
				Title("Afternoon (HH:MM)").
				Value(&fm.Afternoon).
				Validate(validateSlotTime),
			huh.NewInput().
				Title("Evening (HH:MM)").
				Value(&fm.Evening).
				Validate(validateSlotTime),
		),
	).WithTheme(huh.ThemeDracula())
}
