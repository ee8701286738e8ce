package reminder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/consistency/internal/constants"
	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/streak"
)

// Message builds the notification text for slot. Every activity in
// activities is considered pending.
func Message(slot Slot, activities map[string]models.Activity, today dates.Date) (title, message string) {
	names := make([]string, 0, len(activities))
	best := 0
	for name, a := range activities {
		names = append(names, name)
		best = max(best, streak.Calculate(a.Dates, today).Current)
	}
	slices.Sort(names)

	switch slot {
	case Morning:
		return "Good Morning! ☀️", fmt.Sprintf("You have %s to check in today!", pluralize(len(names)))
	case Afternoon:
		shown := names[:min(len(names), constants.ReminderPendingNameLimit)]
		message = "Still pending: " + strings.Join(shown, ", ")
		if extra := len(names) - len(shown); extra > 0 {
			message += fmt.Sprintf(" (+%d more)", extra)
		}
		return "Afternoon Check-in 📝", message
	default:
		if best == 0 {
			return "⚠️ Streak at Risk!", fmt.Sprintf("%s pending! There's still time today.", pluralize(len(names)))
		}
		return "⚠️ Streak at Risk!", fmt.Sprintf("%s pending! Don't lose your %d-day streak!", pluralize(len(names)), best)
	}
}

func pluralize(n int) string {
	if n == 1 {
		return "1 activity"
	}
	return fmt.Sprintf("%d activities", n)
}
