package reminder

import (
	"testing"

	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/models"
)

func TestMessage(t *testing.T) {
	today := dates.MustParse("2024-01-15")
	activities := map[string]models.Activity{
		"Coding":  {Dates: []string{"2024-01-12", "2024-01-13", "2024-01-14"}},
		"Reading": {Dates: []string{"2024-01-14"}},
		"Running": {},
		"Stretch": {},
		"Journal": {Dates: []string{"2024-01-01"}},
	}

	tests := []struct {
		slot        Slot
		wantTitle   string
		wantMessage string
	}{
		{Morning, "Good Morning! ☀️", "You have 5 activities to check in today!"},
		{Afternoon, "Afternoon Check-in 📝", "Still pending: Coding, Journal, Reading (+2 more)"},
		{Evening, "⚠️ Streak at Risk!", "5 activities pending! Don't lose your 3-day streak!"},
	}

	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			title, message := Message(tt.slot, activities, today)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if message != tt.wantMessage {
				t.Errorf("message = %q, want %q", message, tt.wantMessage)
			}
		})
	}
}

func TestMessageSingleActivity(t *testing.T) {
	today := dates.MustParse("2024-01-15")
	activities := map[string]models.Activity{"Coding": {}}

	if _, msg := Message(Morning, activities, today); msg != "You have 1 activity to check in today!" {
		t.Errorf("morning message = %q", msg)
	}
	if _, msg := Message(Afternoon, activities, today); msg != "Still pending: Coding" {
		t.Errorf("afternoon message = %q", msg)
	}
	if _, msg := Message(Evening, activities, today); msg != "1 activity pending! There's still time today." {
		t.Errorf("evening message = %q", msg)
	}
}
