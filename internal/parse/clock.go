package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`^\s*(\d{1,2})\s*[:.hH]\s*(\d{2})\s*$`)

// MinutesPerDay is the exclusive upper bound of a minute-of-day, also accepted as "24:00".
const MinutesPerDay = 24 * 60

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseClock converts a local "HH:MM" clock string into minutes since midnight.
// "24:00" is accepted and yields MinutesPerDay so a window can end at midnight.
func ParseClock(raw string) (int, error) {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("unable to parse clock time: %q", raw)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if min > 59 || h > 24 || (h == 24 && min != 0) {
		return 0, fmt.Errorf("clock time out of range: %q", raw)
	}
	return h*60 + min, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWeekday accepts short or long English weekday names, case-insensitive.
func ParseWeekday(raw string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unable to parse weekday: %q", raw)
	}
	return d, nil
}

// ParseWeekdays parses a list of weekday names, dropping duplicates while keeping order.
func ParseWeekdays(raw []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool, len(raw))
	out := make([]time.Weekday, 0, len(raw))
	for _, r := range raw {
		d, err := ParseWeekday(r)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}
