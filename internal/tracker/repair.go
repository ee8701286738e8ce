package tracker

import (
	"context"
	"errors"
	"slices"

	"github.com/julianstephens/consistency/internal/badges"
	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/streak"
)

// Issue is a problem found in the document.
type Issue struct {
	Activity string `json:"activity"`
	Problem  string `json:"problem"`
	Fixed    bool   `json:"fixed"`
}

// Check reports problems without changing anything.
func (e *Engine) Check() []Issue {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.doc.Clone()
	return inspect(doc, e.today(), false)
}

// Repair fixes everything Check reports and saves the result. Malformed and
// future dates are dropped; longest only ever grows.
func (e *Engine) Repair(ctx context.Context) ([]Issue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var issues []Issue
	today := e.today()
	err := e.mutate(ctx, func(doc *models.Document) error {
		issues = inspect(doc, today, true)
		if len(issues) == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return nil, err
	}

	for _, issue := range issues {
		logger.Info("Repaired", "activity", issue.Activity, "problem", issue.Problem)
	}
	return issues, nil
}

func inspect(doc *models.Document, today dates.Date, fix bool) []Issue {
	var issues []Issue
	report := func(name, problem string) {
		issues = append(issues, Issue{Activity: name, Problem: problem, Fixed: fix})
	}

	for _, name := range doc.Names() {
		a := doc.Activities[name]

		kept := make([]string, 0, len(a.Dates))
		for _, s := range a.Dates {
			d, err := dates.Parse(s)
			switch {
			case err != nil:
				report(name, "malformed date "+s)
			case d.After(today):
				report(name, "future date "+s)
			default:
				kept = append(kept, d.String())
			}
		}
		slices.Sort(kept)
		kept = slices.Compact(kept)

		calc := streak.Calculate(kept, today)
		longest := max(a.Longest, streak.LongestRun(kept), calc.Current)
		if longest != a.Longest {
			report(name, "longest streak out of date")
		}

		awards := badges.Evaluate(name, calc.Current, calc.Last, today, doc.Badges)
		if len(awards) > 0 {
			report(name, "missing badge for current streak")
		}

		if fix {
			a.Dates = kept
			a.Longest = longest
			doc.Activities[name] = a
			badges.Apply(doc.Badges, awards)
		}
	}
	return issues
}
