package tariff

import (
	"context"
	"fmt"
	"time"
)

// scanDays bounds the forward search for the next window start.
const scanDays = 7

// Window is a weekly interval [StartMinute, EndMinute) in local minutes since midnight.
type Window struct {
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

// Status answers whether a calendar is active at an instant and when it next changes.
// NextEnd is only set when the calendar is active now or a next start was found.
type Status struct {
	ActiveNow bool
	NextStart *time.Time
	NextEnd   *time.Time
}

// StatusAt evaluates windows at now. now must already be in the calendar's
// local location; windows are matched against its weekday and clock.
func StatusAt(windows []Window, now time.Time) Status {
	var st Status
	tod := now.Hour()*60 + now.Minute()

	for _, w := range windows {
		if w.Weekday == now.Weekday() && w.StartMinute <= tod && tod < w.EndMinute {
			st.ActiveNow = true
			end := atMinute(now, 0, w.EndMinute)
			st.NextEnd = &end
			break
		}
	}

	if w, day, ok := nextWindow(windows, now, tod); ok {
		start := atMinute(now, day, w.StartMinute)
		st.NextStart = &start
		if !st.ActiveNow {
			end := atMinute(now, day, w.EndMinute)
			st.NextEnd = &end
		}
	}
	return st
}

// nextWindow scans today and the following six days for the earliest window
// start, counting only starts strictly after tod on day zero.
func nextWindow(windows []Window, now time.Time, tod int) (Window, int, bool) {
	for day := 0; day < scanDays; day++ {
		weekday := time.Weekday((int(now.Weekday()) + day) % 7)
		var (
			best  Window
			found bool
		)
		for _, w := range windows {
			if w.Weekday != weekday || (day == 0 && w.StartMinute <= tod) {
				continue
			}
			if !found || w.StartMinute < best.StartMinute {
				best, found = w, true
			}
		}
		if found {
			return best, day, true
		}
	}
	return Window{}, 0, false
}

func atMinute(now time.Time, dayOffset, minute int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+dayOffset, minute/60, minute%60, 0, 0, now.Location())
}

// Source loads the weekly windows of one calendar key (a tariff id or a zone code).
type Source interface {
	Windows(ctx context.Context, key string) ([]Window, error)
}

// Calendar evaluates a Source in a fixed local location.
type Calendar struct {
	source Source
	loc    *time.Location
}

// NewCalendar creates a calendar over source interpreted in loc.
func NewCalendar(source Source, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{source: source, loc: loc}
}

// Location returns the calendar's local time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// GetStatus returns the status of calendar key at now. An empty key or a key
// without windows is never active.
func (c *Calendar) GetStatus(ctx context.Context, key string, now time.Time) (Status, error) {
	if key == "" {
		return Status{}, nil
	}
	windows, err := c.source.Windows(ctx, key)
	if err != nil {
		return Status{}, fmt.Errorf("failed to load windows for %q: %w", key, err)
	}
	return StatusAt(windows, now.In(c.loc)), nil
}

// Windows returns the raw weekly windows of key.
func (c *Calendar) Windows(ctx context.Context, key string) ([]Window, error) {
	if key == "" {
		return nil, nil
	}
	return c.source.Windows(ctx, key)
}
