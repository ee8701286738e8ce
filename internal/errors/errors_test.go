package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped sentinel",
			err:      fmt.Errorf("%w: %q", ErrActivityNotFound, "Coding"),
			expected: `Error: activity not found: "Coding"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "data.json")
	if got != "Error: failed to load data.json" {
		t.Errorf("Formatf = %q", got)
	}
}

func TestIsMatchesWrappedSentinels(t *testing.T) {
	sentinels := []error{
		ErrStoreUnavailable,
		ErrDuplicateActivity,
		ErrActivityNotFound,
		ErrMalformedDate,
		ErrInvalidActivityName,
		ErrInvalidReminderTime,
	}

	for _, sentinel := range sentinels {
		wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", sentinel))
		if !Is(wrapped, sentinel) {
			t.Errorf("Is(%v, %v) = false, want true", wrapped, sentinel)
		}
		for _, other := range sentinels {
			if other != sentinel && Is(wrapped, other) {
				t.Errorf("Is(%v, %v) = true, want false", wrapped, other)
			}
		}
	}
}
