package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/reminder"
)

// ReminderSettings returns the current reminder configuration.
func (e *Engine) ReminderSettings() models.ReminderSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Reminders
}

// SetReminderSettings validates and stores new reminder settings. Missing
// slot times fall back to the defaults.
func (e *Engine) SetReminderSettings(ctx context.Context, settings models.ReminderSettings) error {
	models.ApplyDefaultReminderSettings(&settings)
	if err := reminder.ValidateSettings(settings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.mutate(ctx, func(doc *models.Document) error {
		doc.Reminders = settings
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Reminder settings updated", "enabled", settings.Enabled,
		"morning", settings.Times.Morning, "afternoon", settings.Times.Afternoon, "evening", settings.Times.Evening)
	return nil
}

// PollReminders evaluates the reminder slots at now against the stored
// document. A fired reminder is persisted as sent before it is delivered, so
// a failed save never produces a notification that would be repeated on the
// next poll.
func (e *Engine) PollReminders(ctx context.Context, now time.Time) (*reminder.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var event *reminder.Event
	err := e.mutate(ctx, func(doc *models.Document) error {
		decision := reminder.Evaluate(reminder.Input{
			Now:        now,
			Settings:   doc.Reminders,
			State:      doc.ReminderState,
			Activities: doc.Activities,
		})
		event = decision.Event
		if decision.State == doc.ReminderState {
			return errNoChange
		}
		doc.ReminderState = decision.State
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return nil, err
	}

	if event != nil {
		e.notify.Send(event.Title, event.Message)
	}
	return event, nil
}
