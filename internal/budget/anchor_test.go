package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestToAnchor(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Ljubljana")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		at       time.Time
		expected time.Time
	}{
		{name: "Just before reset belongs to previous day", at: time.Date(2026, 3, 2, 7, 59, 59, 0, loc), expected: date(2026, 3, 1)},
		{name: "Reset instant belongs to the day", at: time.Date(2026, 3, 2, 8, 0, 0, 0, loc), expected: date(2026, 3, 2)},
		{name: "Late evening", at: time.Date(2026, 3, 2, 23, 30, 0, 0, loc), expected: date(2026, 3, 2)},
		{name: "After midnight", at: time.Date(2026, 3, 3, 0, 30, 0, 0, loc), expected: date(2026, 3, 2)},
		{name: "Month boundary", at: time.Date(2026, 3, 1, 3, 0, 0, 0, loc), expected: date(2026, 2, 28)},
		// 07:30 UTC is 08:30 local in winter.
		{name: "Instant given in UTC is read locally", at: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC), expected: date(2026, 3, 2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToAnchor(tc.at, loc))
		})
	}
}

func TestSliceByAnchorBoundary(t *testing.T) {
	loc := time.UTC
	d := func(day, h, m int) time.Time { return time.Date(2026, 3, day, h, m, 0, 0, loc) }

	t.Run("Interval across the reset splits in two", func(t *testing.T) {
		slices := SliceByAnchorBoundary(d(2, 7, 50), d(2, 8, 10), loc)
		require.Len(t, slices, 2)
		assert.Equal(t, Slice{Start: d(2, 7, 50), End: d(2, 8, 0), Anchor: date(2026, 3, 1)}, slices[0])
		assert.Equal(t, Slice{Start: d(2, 8, 0), End: d(2, 8, 10), Anchor: date(2026, 3, 2)}, slices[1])
		assert.Equal(t, 10, slices[0].Minutes())
		assert.Equal(t, 10, slices[1].Minutes())
	})

	t.Run("Interval within one anchor day", func(t *testing.T) {
		slices := SliceByAnchorBoundary(d(2, 9, 0), d(3, 7, 0), loc)
		require.Len(t, slices, 1)
		assert.Equal(t, date(2026, 3, 2), slices[0].Anchor)
	})

	t.Run("Multi-day interval is contiguous and exact", func(t *testing.T) {
		start, end := d(2, 6, 0), d(4, 12, 0)
		slices := SliceByAnchorBoundary(start, end, loc)
		require.Len(t, slices, 4)
		assert.Equal(t, start, slices[0].Start)
		assert.Equal(t, end, slices[len(slices)-1].End)
		for i := 1; i < len(slices); i++ {
			assert.Equal(t, slices[i-1].End, slices[i].Start)
			assert.NotEqual(t, slices[i-1].Anchor, slices[i].Anchor)
		}
		assert.Equal(t, []time.Time{date(2026, 3, 1), date(2026, 3, 2), date(2026, 3, 3), date(2026, 3, 4)},
			[]time.Time{slices[0].Anchor, slices[1].Anchor, slices[2].Anchor, slices[3].Anchor})
	})

	t.Run("Starting exactly at the reset", func(t *testing.T) {
		slices := SliceByAnchorBoundary(d(2, 8, 0), d(2, 9, 0), loc)
		require.Len(t, slices, 1)
		assert.Equal(t, date(2026, 3, 2), slices[0].Anchor)
	})

	t.Run("Degenerate intervals yield nothing", func(t *testing.T) {
		assert.Empty(t, SliceByAnchorBoundary(d(2, 9, 0), d(2, 9, 0), loc))
		assert.Empty(t, SliceByAnchorBoundary(d(2, 10, 0), d(2, 9, 0), loc))
	})
}

func TestCeilMinutes(t *testing.T) {
	assert.Equal(t, 0, CeilMinutes(0))
	assert.Equal(t, 0, CeilMinutes(-time.Minute))
	assert.Equal(t, 1, CeilMinutes(time.Second))
	assert.Equal(t, 1, CeilMinutes(time.Minute))
	assert.Equal(t, 2, CeilMinutes(time.Minute+time.Nanosecond))
	assert.Equal(t, 90, CeilMinutes(90*time.Minute))
}
