package models

import (
	"slices"
	"time"
)

// Activity is a tracked habit. Its identifier is the key it is stored under
// in Document.Activities.
type Activity struct {
	Dates     []string   `json:"dates"`   // check-in days (YYYY-MM-DD), set semantics
	Longest   int        `json:"longest"` // best streak ever reached, never decreases
	Color     string     `json:"color,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Metadata is the display-only part of an Activity.
type Metadata struct {
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// HasDate reports whether day has been checked in.
func (a Activity) HasDate(day string) bool {
	return slices.Contains(a.Dates, day)
}

// Clone returns a deep copy of a.
func (a Activity) Clone() Activity {
	out := a
	out.Dates = slices.Clone(a.Dates)
	if a.CreatedAt != nil {
		created := *a.CreatedAt
		out.CreatedAt = &created
	}
	return out
}
