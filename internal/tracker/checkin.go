package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/consistency/internal/badges"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/streak"
)

// CheckInResult describes the state of an activity after a check-in.
type CheckInResult struct {
	Activity         string         `json:"activity"`
	Date             string         `json:"date"`
	Current          int            `json:"current"`
	Longest          int            `json:"longest"`
	Status           streak.Status  `json:"status"`
	AlreadyCheckedIn bool           `json:"already_checked_in"` // day was already recorded, nothing changed
	NewBadges        []badges.Award `json:"new_badges"`
}

// milestoneDays are the streak lengths that get a celebratory notification
// instead of the plain confirmation.
var milestoneDays = []int{7, 14, 30, 50, 100, 365}

// CheckIn records today for name.
func (e *Engine) CheckIn(ctx context.Context, name string) (CheckInResult, error) {
	return e.RecordCheckIn(ctx, name, e.today())
}

// RecordCheckIn records day for name. Recording a day twice is a no-op.
// Streaks and badges are evaluated against the clock's today, so a backfilled
// day only counts when it joins the current run.
func (e *Engine) RecordCheckIn(ctx context.Context, name string, day dates.Date) (CheckInResult, error) {
	name = canonicalName(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	res := CheckInResult{Activity: name, Date: day.String()}
	if day.After(today) {
		return res, fmt.Errorf("%w: %s is in the future", apperrors.ErrMalformedDate, day)
	}

	var activity models.Activity
	err := e.mutate(ctx, func(doc *models.Document) error {
		a, exists := doc.Activities[name]
		if !exists {
			return fmt.Errorf("%w: %q", apperrors.ErrActivityNotFound, name)
		}
		if a.HasDate(day.String()) {
			res.AlreadyCheckedIn = true
			activity = a
			return errNoChange
		}

		a.Dates = append(a.Dates, day.String())
		slices.Sort(a.Dates)

		calc := streak.Calculate(a.Dates, today)
		a.Longest = max(a.Longest, calc.Current)

		awards := badges.Evaluate(name, calc.Current, calc.Last, today, doc.Badges)
		badges.Apply(doc.Badges, awards)
		res.NewBadges = awards

		doc.Activities[name] = a
		activity = a
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return CheckInResult{}, err
	}

	calc := streak.Calculate(activity.Dates, today)
	res.Current = calc.Current
	res.Longest = max(activity.Longest, calc.Current)
	res.Status = calc.Status

	if res.AlreadyCheckedIn {
		logger.Debug("Already checked in", "name", name, "date", res.Date)
		return res, nil
	}

	logger.Info("Checked in", "name", name, "date", res.Date, "current", res.Current, "longest", res.Longest)
	e.announceCheckIn(name, activity.Icon, res)
	return res, nil
}

func (e *Engine) announceCheckIn(name, icon string, res CheckInResult) {
	if slices.Contains(milestoneDays, res.Current) {
		e.notify.Send(
			fmt.Sprintf("🎉 Milestone: %d Days!", res.Current),
			fmt.Sprintf("Incredible! You've hit %d days of %s!", res.Current, name),
		)
	} else {
		e.notify.Send("✅ Checked In!", fmt.Sprintf("%s %s: 🔥 %d day streak!", icon, name, res.Current))
	}

	for _, award := range res.NewBadges {
		logger.Info("Badge earned", "activity", award.Key.Activity, "days", award.Key.Days)
		e.notify.Send(badges.Message(award))
	}
}
