// Package clock supplies the current civil time in a fixed timezone and the
// string forms derived from it: the day key used to detect rollover, the
// time-of-day stamp written into records, and the human day label.
//
// Production code injects Real(loc); tests inject Fake(t) and move time
// with Set or Advance.
package clock

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DayKeyLayout is the canonical calendar-day identifier.
	DayKeyLayout = "2006-01-02"

	// StampLayout renders a time of day as written into a record.
	StampLayout = "03:04 PM"

	// DayLabelLayout renders a day for display, e.g. "Oct 16, 2026 (Friday)".
	DayLabelLayout = "Jan 02, 2006 (Monday)"
)

// Clock returns the current time in a fixed location.
type Clock interface {
	// Now returns the current time, already converted to Location().
	Now() time.Time

	// Location is the civil timezone all day keys are computed in.
	Location() *time.Location
}

// DayKey returns the canonical day key for the clock's current time.
func DayKey(c Clock) string {
	return c.Now().Format(DayKeyLayout)
}

// NextDayKey returns the day key for the calendar day after the current one.
// Calendar arithmetic, not 24h, so DST days are neither skipped nor repeated.
func NextDayKey(c Clock) string {
	return c.Now().AddDate(0, 0, 1).Format(DayKeyLayout)
}

// Stamp returns the current time of day as a record stamp.
func Stamp(c Clock) string {
	return c.Now().Format(StampLayout)
}

// DayLabel converts a day key into its display label.
// Unparseable keys are returned unchanged.
func DayLabel(dayKey string, loc *time.Location) string {
	t, err := time.ParseInLocation(DayKeyLayout, dayKey, loc)
	if err != nil {
		return dayKey
	}
	return t.Format(DayLabelLayout)
}

// LoadLocation resolves a timezone name. "Local" and "" map to time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Real returns a Clock backed by the system time.
func Real(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return realClock{loc: loc}
}

type realClock struct {
	loc *time.Location
}

func (r realClock) Now() time.Time          { return time.Now().In(r.loc) }
func (r realClock) Location() *time.Location { return r.loc }

// FakeClock is a Clock whose time only moves when told to.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// Fake returns a FakeClock fixed at initial, in initial's location.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the fake current time.
func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Location returns the location of the fake current time.
func (f *FakeClock) Location() *time.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Location()
}

// Set jumps the clock to t.
func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.current = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.current = f.current.Add(d)
	f.mu.Unlock()
}
