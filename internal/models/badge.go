package models

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/julianstephens/consistency/internal/logger"
)

// BadgeKey identifies a milestone badge for one activity.
type BadgeKey struct {
	Activity string `json:"activity"`
	Days     int    `json:"days"`
}

func (k BadgeKey) String() string {
	return fmt.Sprintf("%s_%d", k.Activity, k.Days)
}

// ParseLegacyBadgeKey decodes the "{activity}_{days}" strings written by older
// versions. The threshold is always the trailing number, so the split happens
// on the last underscore and activity names may contain underscores.
func ParseLegacyBadgeKey(s string) (BadgeKey, error) {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return BadgeKey{}, fmt.Errorf("malformed badge key %q", s)
	}
	days, err := strconv.Atoi(s[idx+1:])
	if err != nil || days <= 0 {
		return BadgeKey{}, fmt.Errorf("malformed badge key %q", s)
	}
	return BadgeKey{Activity: s[:idx], Days: days}, nil
}

// BadgeSet holds awarded badges, one entry per key, with the day each was
// last earned ("" when unknown, e.g. migrated legacy keys).
type BadgeSet map[BadgeKey]string

type badgeRecord struct {
	Activity  string `json:"activity"`
	Days      int    `json:"days"`
	AwardedOn string `json:"awarded_on,omitempty"`
}

// Has reports whether key has ever been awarded.
func (s BadgeSet) Has(key BadgeKey) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the awarded keys ordered by activity, then threshold.
func (s BadgeSet) Keys() []BadgeKey {
	keys := make([]BadgeKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b BadgeKey) int {
		if c := cmp.Compare(a.Activity, b.Activity); c != 0 {
			return c
		}
		return cmp.Compare(a.Days, b.Days)
	})
	return keys
}

// Clone returns a copy of s.
func (s BadgeSet) Clone() BadgeSet {
	out := make(BadgeSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the set as a sorted list of objects.
func (s BadgeSet) MarshalJSON() ([]byte, error) {
	records := make([]badgeRecord, 0, len(s))
	for _, k := range s.Keys() {
		records = append(records, badgeRecord{Activity: k.Activity, Days: k.Days, AwardedOn: s[k]})
	}
	return json.Marshal(records)
}

// UnmarshalJSON accepts both object entries and legacy "{activity}_{days}"
// strings. Legacy strings that do not parse are skipped with a warning.
func (s *BadgeSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("badges: %w", err)
	}

	set := make(BadgeSet, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var legacy string
			if err := json.Unmarshal(item, &legacy); err != nil {
				return fmt.Errorf("badges: %w", err)
			}
			key, err := ParseLegacyBadgeKey(legacy)
			if err != nil {
				logger.Warn("Skipping legacy badge", "value", legacy, "error", err)
				continue
			}
			if _, ok := set[key]; !ok {
				set[key] = ""
			}
			continue
		}

		var rec badgeRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return fmt.Errorf("badges: %w", err)
		}
		set[BadgeKey{Activity: rec.Activity, Days: rec.Days}] = rec.AwardedOn
	}

	*s = set
	return nil
}
