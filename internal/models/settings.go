package models

import "github.com/julianstephens/consistency/internal/constants"

// SlotTimes holds the configured HH:MM time of each reminder slot.
type SlotTimes struct {
	Morning   string `json:"morning"`
	Afternoon string `json:"afternoon"`
	Evening   string `json:"evening"`
}

// ReminderSettings configures the daily reminder slots.
type ReminderSettings struct {
	Enabled bool      `json:"enabled"`
	Times   SlotTimes `json:"times"`
}

// ReminderState records which slots have fired on Date.
type ReminderState struct {
	Date      string `json:"date"`
	Morning   bool   `json:"morning"`
	Afternoon bool   `json:"afternoon"`
	Evening   bool   `json:"evening"`
}

// DefaultReminderSettings returns the settings used on first run.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Enabled: constants.DefaultRemindersEnabled,
		Times: SlotTimes{
			Morning:   constants.DefaultMorningTime,
			Afternoon: constants.DefaultAfternoonTime,
			Evening:   constants.DefaultEveningTime,
		},
	}
}

// ApplyDefaultReminderSettings fills in missing slot times.
func ApplyDefaultReminderSettings(settings *ReminderSettings) {
	if settings.Times.Morning == "" {
		settings.Times.Morning = constants.DefaultMorningTime
	}
	if settings.Times.Afternoon == "" {
		settings.Times.Afternoon = constants.DefaultAfternoonTime
	}
	if settings.Times.Evening == "" {
		settings.Times.Evening = constants.DefaultEveningTime
	}
}
