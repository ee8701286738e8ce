// Package badges decides which milestone badges a check-in earns.
package badges

import (
	"fmt"

	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/models"
)

// Milestone is a streak length that earns a badge.
type Milestone struct {
	Days        int    `json:"days"`
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Milestones is the fixed badge table in ascending order.
var Milestones = []Milestone{
	{Days: 1, Icon: "⭐", Name: "First Step", Description: "Complete your first day"},
	{Days: 7, Icon: "🔥", Name: "Week Warrior", Description: "7 day streak"},
	{Days: 14, Icon: "💪", Name: "Fortnight Fighter", Description: "14 day streak"},
	{Days: 30, Icon: "🏆", Name: "Month Master", Description: "30 day streak"},
	{Days: 50, Icon: "🌟", Name: "Fifty & Fabulous", Description: "50 day streak"},
	{Days: 100, Icon: "💎", Name: "Century Club", Description: "100 day streak"},
	{Days: 365, Icon: "👑", Name: "Year Legend", Description: "365 day streak"},
}

// Award is a newly earned badge.
type Award struct {
	Key       models.BadgeKey `json:"key"`
	Milestone Milestone       `json:"milestone"`
	On        dates.Date      `json:"-"`
}

// Lookup returns the milestone for an exact day count.
func Lookup(days int) (Milestone, bool) {
	for _, m := range Milestones {
		if m.Days == days {
			return m, true
		}
	}
	return Milestone{}, false
}

// Evaluate returns the badges a run of length current ending on last earns
// for activity, dated today. A badge is awarded only when the run equals a
// milestone exactly, and at most once per run: an existing award dated before
// the run's first day (or undated) does not block a new one. The awarded set
// is not modified; the caller records the returned keys.
func Evaluate(activity string, current int, last, today dates.Date, awarded models.BadgeSet) []Award {
	m, ok := Lookup(current)
	if !ok {
		return nil
	}

	key := models.BadgeKey{Activity: activity, Days: m.Days}
	if on, seen := awarded[key]; seen && awardedThisCycle(on, current, last) {
		return nil
	}

	return []Award{{Key: key, Milestone: m, On: today}}
}

func awardedThisCycle(on string, current int, last dates.Date) bool {
	if on == "" {
		// Legacy keys carry no date; treat them as an earlier cycle.
		return false
	}
	awardedOn, err := dates.Parse(on)
	if err != nil {
		return true
	}
	cycleStart := last.AddDays(-(current - 1))
	return !awardedOn.Before(cycleStart)
}

// Apply records awards in the set.
func Apply(set models.BadgeSet, awards []Award) {
	for _, a := range awards {
		set[a.Key] = a.On.String()
	}
}

// Earned returns the milestones activity holds, in table order.
func Earned(activity string, awarded models.BadgeSet) []Milestone {
	var out []Milestone
	for _, m := range Milestones {
		if awarded.Has(models.BadgeKey{Activity: activity, Days: m.Days}) {
			out = append(out, m)
		}
	}
	return out
}

// Message builds the notification for an award.
func Message(a Award) (title, message string) {
	return "🏆 Badge Earned!", fmt.Sprintf("%s %s: %s", a.Milestone.Icon, a.Milestone.Name, a.Key.Activity)
}
