package budget

import "time"

const (
	// DailyAllowanceMinutes is the free-parking pool of one vehicle per anchor day.
	DailyAllowanceMinutes = 120
	// ResetHour is the local hour at which a new anchor day begins.
	ResetHour = 8
)

// ToAnchor returns the anchor date of t: the local calendar date, or the
// previous one before ResetHour. The result is that date at UTC midnight.
func ToAnchor(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	if local.Hour() < ResetHour {
		local = local.AddDate(0, 0, -1)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// nextBoundary returns the first ResetHour instant strictly after t.
func nextBoundary(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	b := time.Date(local.Year(), local.Month(), local.Day(), ResetHour, 0, 0, 0, loc)
	if !b.After(local) {
		b = time.Date(local.Year(), local.Month(), local.Day()+1, ResetHour, 0, 0, 0, loc)
	}
	return b
}

// Slice is a piece of an interval lying within a single anchor day.
type Slice struct {
	Start  time.Time
	End    time.Time
	Anchor time.Time
}

// Minutes is the slice length rounded up to whole minutes.
func (s Slice) Minutes() int {
	return CeilMinutes(s.End.Sub(s.Start))
}

// SliceByAnchorBoundary splits [start, end) at every ResetHour boundary.
// The slices are contiguous and cover the interval exactly; an empty or
// inverted interval yields no slices.
func SliceByAnchorBoundary(start, end time.Time, loc *time.Location) []Slice {
	var slices []Slice
	for cur := start; cur.Before(end); {
		b := nextBoundary(cur, loc)
		if b.After(end) {
			b = end
		}
		slices = append(slices, Slice{Start: cur, End: b, Anchor: ToAnchor(cur, loc)})
		cur = b
	}
	return slices
}

// CeilMinutes rounds d up to whole minutes; non-positive durations are zero.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
