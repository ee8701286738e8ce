// Package dates provides calendar-day arithmetic. Values are civil dates
// (year, month, day); time-of-day never takes part in a comparison.
package dates

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/julianstephens/consistency/internal/constants"
)

// Date is a calendar day in the local wall-clock calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Order selects the direction of a LastNDays sequence.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a settable clock for tests and simulations.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock frozen at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// FromTime returns the wall-clock date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// New builds a normalized Date (e.g. January 32 becomes February 1).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Parse parses a YYYY-MM-DD date string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the local calendar date at the clock's current time.
func Today(clock Clock) Date {
	return FromTime(clock.Now().Local())
}

// Yesterday returns d minus one calendar day.
func Yesterday(d Date) Date {
	return d.AddDays(-1)
}

// LastNDays yields the n dates ending at from. The sequence is computed
// lazily and can be ranged over any number of times.
func LastNDays(n int, from Date, order Order) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for i := 0; i < n; i++ {
			offset := -i
			if order == OldestFirst {
				offset = i - (n - 1)
			}
			if !yield(from.AddDays(offset)) {
				return
			}
		}
	}
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.midnight().AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.midnight().Sub(d.midnight()).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.midnight().Before(other.midnight()) }

func (d Date) After(other Date) bool { return d.midnight().After(other.midnight()) }

func (d Date) IsZero() bool { return d == Date{} }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.midnight().Weekday() }

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.midnight().Format(constants.DateFormat)
}

// Format formats d with a time layout, e.g. "01/02" for compact headers.
func (d Date) Format(layout string) string {
	return d.midnight().Format(layout)
}
