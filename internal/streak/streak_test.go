package streak

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/consistency/internal/dates"
)

var today = dates.MustParse("2024-03-10")

// run returns n consecutive days ending at end, newest first.
func run(end dates.Date, n int) []string {
	var out []string
	for d := range dates.LastNDays(n, end, dates.NewestFirst) {
		out = append(out, d.String())
	}
	return out
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		wantCurrent int
		wantStatus  Status
	}{
		{
			name:       "empty",
			days:       nil,
			wantStatus: NotStarted,
		},
		{
			name:        "only today",
			days:        []string{"2024-03-10"},
			wantCurrent: 1,
			wantStatus:  CheckedInToday,
		},
		{
			name:        "only yesterday",
			days:        []string{"2024-03-09"},
			wantCurrent: 1,
			wantStatus:  AtRisk,
		},
		{
			name:       "two days ago",
			days:       []string{"2024-03-08"},
			wantStatus: Broken,
		},
		{
			name:        "run ending yesterday",
			days:        run(dates.MustParse("2024-03-09"), 5),
			wantCurrent: 5,
			wantStatus:  AtRisk,
		},
		{
			name:        "unsorted with duplicates",
			days:        []string{"2024-03-08", "2024-03-10", "2024-03-09", "2024-03-10", "2024-03-08"},
			wantCurrent: 3,
			wantStatus:  CheckedInToday,
		},
		{
			name:        "gap stops the walk",
			days:        []string{"2024-03-10", "2024-03-09", "2024-03-07", "2024-03-06"},
			wantCurrent: 2,
			wantStatus:  CheckedInToday,
		},
		{
			name:       "long run broken two days ago",
			days:       run(dates.MustParse("2024-03-08"), 40),
			wantStatus: Broken,
		},
		{
			name:        "run across a month boundary",
			days:        run(today, 15),
			wantCurrent: 15,
			wantStatus:  CheckedInToday,
		},
		{
			name:       "future date only",
			days:       []string{"2024-03-12"},
			wantStatus: Broken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.days, today)
			if res.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", res.Current, tt.wantCurrent)
			}
			if res.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", res.Status, tt.wantStatus)
			}
		})
	}
}

func TestContiguousRunIgnoresEarlierGaps(t *testing.T) {
	for n := 1; n <= 30; n++ {
		days := run(today, n)
		if got := Calculate(days, today).Current; got != n {
			t.Fatalf("run of %d: Current = %d", n, got)
		}

		// Older history separated by a gap must not change the result.
		before := today.AddDays(-n - 1)
		withHistory := append(run(before, 10), days...)
		if got := Calculate(withHistory, today).Current; got != n {
			t.Fatalf("run of %d with earlier history: Current = %d", n, got)
		}
	}
}

func TestMalformedDatesAreSkipped(t *testing.T) {
	days := []string{"2024-03-10", "not-a-date", "2024-03-09", "2024-13-40"}

	res := Calculate(days, today)
	if res.Current != 2 || res.Status != CheckedInToday {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("expected 2 skipped entries, got %v", res.Skipped)
	}

	res = Calculate([]string{"garbage"}, today)
	if res.Status != NotStarted || res.Current != 0 {
		t.Errorf("only malformed dates should look not started, got %+v", res)
	}
}

func TestCalculateIsIdempotentOnDuplicates(t *testing.T) {
	once := Calculate([]string{"2024-03-09", "2024-03-10"}, today)
	twice := Calculate([]string{"2024-03-09", "2024-03-10", "2024-03-10"}, today)
	if once.Current != twice.Current || once.Status != twice.Status {
		t.Errorf("duplicate check-in changed result: %+v vs %+v", once, twice)
	}
	if once.Last != today {
		t.Errorf("Last = %v, want %v", once.Last, today)
	}
}

func TestLongestRun(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want int
	}{
		{name: "empty", days: nil, want: 0},
		{name: "single", days: []string{"2024-01-01"}, want: 1},
		{name: "longest in the past", days: append(run(dates.MustParse("2024-01-20"), 9), run(today, 3)...), want: 9},
		{name: "duplicates do not count", days: []string{"2024-01-01", "2024-01-01", "2024-01-02"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestRun(tt.days); got != tt.want {
				t.Errorf("LongestRun = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Status{"s": AtRisk})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"s":"at_risk"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}
