// Package reminder decides when the daily reminder slots fire.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/consistency/internal/constants"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
)

// Slot is one of the three daily reminder windows.
type Slot int

const (
	Morning Slot = iota
	Afternoon
	Evening
)

// Slots lists every slot in firing order.
var Slots = []Slot{Morning, Afternoon, Evening}

func (s Slot) String() string {
	switch s {
	case Morning:
		return constants.SlotMorning
	case Afternoon:
		return constants.SlotAfternoon
	case Evening:
		return constants.SlotEvening
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Input is everything a poll looks at.
type Input struct {
	Now        time.Time
	Settings   models.ReminderSettings
	State      models.ReminderState
	Activities map[string]models.Activity
}

// Event is a reminder that should be delivered.
type Event struct {
	Slot    Slot   `json:"slot"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Decision is the outcome of a poll. State is always returned so a date
// rollover gets persisted even when nothing fires.
type Decision struct {
	State models.ReminderState
	Event *Event
}

// Evaluate applies one poll. At most one slot fires: the earliest unsent
// slot whose time has passed today. Slots missed while the process was
// suspended are caught up one per poll.
func Evaluate(in Input) Decision {
	today := dates.FromTime(in.Now).String()

	state := in.State
	if state.Date != today {
		state = models.ReminderState{Date: today}
	}

	if !in.Settings.Enabled || len(in.Activities) == 0 {
		return Decision{State: state}
	}
	for _, a := range in.Activities {
		if a.HasDate(today) {
			return Decision{State: state}
		}
	}

	for _, slot := range Slots {
		if sent(state, slot) {
			continue
		}
		at := slotTime(in.Now, in.Settings, slot)
		if in.Now.Before(at) {
			continue
		}

		markSent(&state, slot)
		title, message := Message(slot, in.Activities, dates.FromTime(in.Now))
		return Decision{
			State: state,
			Event: &Event{Slot: slot, Title: title, Message: message, Date: today},
		}
	}

	return Decision{State: state}
}

// ParseSlotTime parses an HH:MM slot time.
func ParseSlotTime(s string) (hour, minute int, err error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidReminderTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// ValidateSettings checks every slot time.
func ValidateSettings(settings models.ReminderSettings) error {
	for _, slot := range Slots {
		if _, _, err := ParseSlotTime(configured(settings, slot)); err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
	}
	return nil
}

// slotTime returns the slot's time on now's day, falling back to the
// default when the configured value does not parse.
func slotTime(now time.Time, settings models.ReminderSettings, slot Slot) time.Time {
	hour, minute, err := ParseSlotTime(configured(settings, slot))
	if err != nil {
		fallback := configured(models.DefaultReminderSettings(), slot)
		logger.Warn("Invalid reminder time, using default", "slot", slot, "value", configured(settings, slot), "default", fallback)
		hour, minute, _ = ParseSlotTime(fallback)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

func configured(settings models.ReminderSettings, slot Slot) string {
	switch slot {
	case Morning:
		return settings.Times.Morning
	case Afternoon:
		return settings.Times.Afternoon
	default:
		return settings.Times.Evening
	}
}

func sent(state models.ReminderState, slot Slot) bool {
	switch slot {
	case Morning:
		return state.Morning
	case Afternoon:
		return state.Afternoon
	default:
		return state.Evening
	}
}

func markSent(state *models.ReminderState, slot Slot) {
	switch slot {
	case Morning:
		state.Morning = true
	case Afternoon:
		state.Afternoon = true
	default:
		state.Evening = true
	}
}
