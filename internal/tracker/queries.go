package tracker

import (
	"fmt"

	"github.com/julianstephens/consistency/internal/badges"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/streak"
)

// WeekLength is the number of days in ActivityStatus.Week.
const WeekLength = 7

// ActivityStatus is a read-only view of one activity.
type ActivityStatus struct {
	Name        string             `json:"name"`
	Icon        string             `json:"icon"`
	Color       string             `json:"color"`
	Current     int                `json:"current"`
	Longest     int                `json:"longest"`
	Status      streak.Status      `json:"status"`
	Total       int                `json:"total"`
	LastCheckIn string             `json:"last_check_in,omitempty"`
	Week        []bool             `json:"week"` // last seven days, oldest first, today last
	Badges      []badges.Milestone `json:"badges"`
}

// EarnedBadge is an award in the ledger.
type EarnedBadge struct {
	Activity  string           `json:"activity"`
	Milestone badges.Milestone `json:"milestone"`
	AwardedOn string           `json:"awarded_on,omitempty"`
	Retired   bool             `json:"retired"` // activity has since been deleted
}

// Activities returns every activity ordered by name.
func (e *Engine) Activities() []ActivityStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	out := make([]ActivityStatus, 0, len(e.doc.Activities))
	for _, name := range e.doc.Names() {
		out = append(out, describe(name, e.doc.Activities[name], e.doc.Badges, today))
	}
	return out
}

// Status returns one activity.
func (e *Engine) Status(name string) (ActivityStatus, error) {
	name = canonicalName(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.doc.Activities[name]
	if !ok {
		return ActivityStatus{}, fmt.Errorf("%w: %q", apperrors.ErrActivityNotFound, name)
	}
	return describe(name, a, e.doc.Badges, e.today()), nil
}

func describe(name string, a models.Activity, awarded models.BadgeSet, today dates.Date) ActivityStatus {
	calc := streak.Calculate(a.Dates, today)
	st := ActivityStatus{
		Name:    name,
		Icon:    a.Icon,
		Color:   a.Color,
		Current: calc.Current,
		Longest: max(a.Longest, calc.Current),
		Status:  calc.Status,
		Total:   len(a.Dates) - len(calc.Skipped),
		Week:    make([]bool, 0, WeekLength),
		Badges:  badges.Earned(name, awarded),
	}
	if !calc.Last.IsZero() {
		st.LastCheckIn = calc.Last.String()
	}
	for d := range dates.LastNDays(WeekLength, today, dates.OldestFirst) {
		st.Week = append(st.Week, a.HasDate(d.String()))
	}
	return st
}

// Badges returns the whole award ledger ordered by activity and threshold.
func (e *Engine) Badges() []EarnedBadge {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := e.doc.Badges.Keys()
	out := make([]EarnedBadge, 0, len(keys))
	for _, key := range keys {
		m, ok := badges.Lookup(key.Days)
		if !ok {
			m = badges.Milestone{Days: key.Days, Icon: "🏅", Name: fmt.Sprintf("%d Days", key.Days)}
		}
		_, active := e.doc.Activities[key.Activity]
		out = append(out, EarnedBadge{
			Activity:  key.Activity,
			Milestone: m,
			AwardedOn: e.doc.Badges[key],
			Retired:   !active,
		})
	}
	return out
}
