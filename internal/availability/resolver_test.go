package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curbside-backend/internal/permit"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/tariff"
)

type mapSource map[string][]tariff.Window

func (m mapSource) Windows(_ context.Context, key string) ([]tariff.Window, error) {
	return m[key], nil
}

func TestResolver_Compute(t *testing.T) {
	// Monday 2026-03-02; privileged hours 19:00-24:00 every Monday in zone 5.
	src := mapSource{"5": {{Weekday: time.Monday, StartMinute: 19 * 60, EndMinute: 24 * 60}}}
	resolver := NewResolver(tariff.NewCalendar(src, time.UTC))
	ctx := context.Background()

	evening := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	seven := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)

	privileged := segment.Facts{ID: "s1", ZoneCode: "5", ParkingType: segment.ParkingPrivileged}

	t.Run("Outsider during privileged hours is restricted", func(t *testing.T) {
		a, err := resolver.Compute(ctx, privileged, evening, permit.None("veh"))
		require.NoError(t, err)
		assert.True(t, a.RestrictedNow(evening))
		assert.Equal(t, &midnight, a.AvailableFrom)
		assert.Equal(t, &midnight, a.NextChange)
	})

	t.Run("Home zone resident during privileged hours is not restricted", func(t *testing.T) {
		a, err := resolver.Compute(ctx, privileged, evening, permit.ZoneResident("5", "veh"))
		require.NoError(t, err)
		assert.False(t, a.RestrictedNow(evening))
		assert.Nil(t, a.AvailableFrom)
		assert.Equal(t, &midnight, a.NextChange)
	})

	t.Run("Disability holder during privileged hours is not restricted", func(t *testing.T) {
		a, err := resolver.Compute(ctx, privileged, evening, permit.Disability(""))
		require.NoError(t, err)
		assert.False(t, a.RestrictedNow(evening))
	})

	t.Run("Outside privileged hours is available until the next start", func(t *testing.T) {
		a, err := resolver.Compute(ctx, privileged, afternoon, permit.None(""))
		require.NoError(t, err)
		assert.False(t, a.RestrictedNow(afternoon))
		assert.Equal(t, &seven, a.AvailableUntil)
		assert.Equal(t, &seven, a.NextChange)
	})

	t.Run("Non-privileged segment has no window", func(t *testing.T) {
		paid := segment.Facts{ID: "s2", ZoneCode: "5", ParkingType: segment.ParkingPaid}
		a, err := resolver.Compute(ctx, paid, evening, permit.None(""))
		require.NoError(t, err)
		assert.Equal(t, Availability{}, a)
	})
}

func TestRestrictedNow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	assert.True(t, Availability{AvailableFrom: &later}.RestrictedNow(now))
	assert.False(t, Availability{AvailableFrom: &later, AvailableUntil: &later}.RestrictedNow(now))
	assert.False(t, Availability{AvailableFrom: &earlier}.RestrictedNow(now))
	assert.False(t, Availability{}.RestrictedNow(now))
}
