// Package streak derives the current streak of an activity from its
// check-in dates.
package streak

import (
	"slices"

	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/logger"
)

// Status describes where an activity's streak stands on the evaluation day.
type Status int

const (
	NotStarted Status = iota
	Broken
	AtRisk
	CheckedInToday
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Broken:
		return "broken"
	case AtRisk:
		return "at_risk"
	case CheckedInToday:
		return "checked_in_today"
	default:
		return "unknown"
	}
}

// MarshalText lets Status appear by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a streak calculation.
type Result struct {
	Current int
	Status  Status
	Last    dates.Date // most recent valid check-in, zero when none
	Skipped []string   // malformed entries that were ignored
}

// Calculate computes the current streak ending today or yesterday.
// Malformed date strings are skipped and reported in Result.Skipped.
func Calculate(days []string, today dates.Date) Result {
	parsed, skipped := parse(days)
	res := Result{Skipped: skipped}

	if len(parsed) == 0 {
		res.Status = NotStarted
		return res
	}

	last := parsed[0]
	res.Last = last
	yesterday := dates.Yesterday(today)
	if last != today && last != yesterday {
		res.Status = Broken
		return res
	}

	expected := last
	for _, d := range parsed {
		if d != expected {
			break
		}
		res.Current++
		expected = dates.Yesterday(expected)
	}

	if last == today {
		res.Status = CheckedInToday
	} else {
		res.Status = AtRisk
	}
	return res
}

// LongestRun returns the longest run of consecutive days anywhere in the
// history. Only the repair path uses it; the stored longest value is
// otherwise maintained incrementally.
func LongestRun(days []string) int {
	parsed, _ := parse(days)
	if len(parsed) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i] == dates.Yesterday(parsed[i-1]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// parse returns the valid dates deduplicated and sorted newest first.
func parse(days []string) ([]dates.Date, []string) {
	var skipped []string
	parsed := make([]dates.Date, 0, len(days))
	for _, s := range days {
		d, err := dates.Parse(s)
		if err != nil {
			logger.Warn("Skipping malformed check-in date", "date", s, "error", err)
			skipped = append(skipped, s)
			continue
		}
		parsed = append(parsed, d)
	}

	slices.SortFunc(parsed, func(a, b dates.Date) int {
		switch {
		case a.After(b):
			return -1
		case a.Before(b):
			return 1
		default:
			return 0
		}
	})
	return slices.Compact(parsed), skipped
}
