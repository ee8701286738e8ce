package models

import (
	"encoding/json"
	"slices"

	"github.com/julianstephens/consistency/internal/constants"
)

// Document is the complete persisted state: every activity, the awarded
// badges and the reminder configuration and progress.
type Document struct {
	Version       int                 `json:"version"`
	Activities    map[string]Activity `json:"activities"`
	Badges        BadgeSet            `json:"badges"`
	Reminders     ReminderSettings    `json:"reminders"`
	ReminderState ReminderState       `json:"reminder_state"`
}

// NewDocument returns the empty document used on first run.
func NewDocument() *Document {
	return &Document{
		Version:    constants.DocumentVersion,
		Activities: make(map[string]Activity),
		Badges:     make(BadgeSet),
		Reminders:  DefaultReminderSettings(),
	}
}

// DecodeDocument parses a persisted document and fills in defaults for
// anything an older writer left out.
func DecodeDocument(data []byte) (*Document, error) {
	// Start from defaults so a missing "reminders" object keeps enabled=true.
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

// EncodeDocument serializes doc in the canonical indented form.
func EncodeDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Normalize initializes nil maps, deduplicates dates and applies defaults.
func (d *Document) Normalize() {
	if d.Version == 0 {
		d.Version = constants.DocumentVersion
	}
	if d.Activities == nil {
		d.Activities = make(map[string]Activity)
	}
	if d.Badges == nil {
		d.Badges = make(BadgeSet)
	}
	for name, activity := range d.Activities {
		if activity.Dates == nil {
			activity.Dates = []string{}
		}
		slices.Sort(activity.Dates)
		activity.Dates = slices.Compact(activity.Dates)
		d.Activities[name] = activity
	}
	ApplyDefaultReminderSettings(&d.Reminders)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Version:       d.Version,
		Activities:    make(map[string]Activity, len(d.Activities)),
		Badges:        d.Badges.Clone(),
		Reminders:     d.Reminders,
		ReminderState: d.ReminderState,
	}
	for name, activity := range d.Activities {
		out.Activities[name] = activity.Clone()
	}
	return out
}

// Names returns the activity names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Activities))
	for name := range d.Activities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CheckedInOn reports whether any activity has a check-in on day.
func (d *Document) CheckedInOn(day string) bool {
	for _, activity := range d.Activities {
		if activity.HasDate(day) {
			return true
		}
	}
	return false
}
