package availability

import (
	"context"
	"fmt"
	"time"

	"curbside-backend/internal/permit"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/tariff"
)

// Availability is the legal parking window of a segment relative to a permit.
// All fields are optional; an empty value means no restriction in view.
type Availability struct {
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	AvailableUntil *time.Time `json:"available_until,omitempty"`
	NextChange     *time.Time `json:"next_change,omitempty"`
}

// RestrictedNow reports an indefinite future-only window: parking opens later
// and nothing bounds it, which signals that parking is prohibited at now.
func (a Availability) RestrictedNow(now time.Time) bool {
	return a.AvailableFrom != nil && a.AvailableFrom.After(now) && a.AvailableUntil == nil
}

// FromPrivilegedStatus derives availability for a segment from the status of
// its zone's privileged-hours calendar.
func FromPrivilegedStatus(pt segment.ParkingType, zone string, privileged tariff.Status, pov permit.Snapshot) Availability {
	if pt != segment.ParkingPrivileged {
		return Availability{}
	}
	if privileged.ActiveNow {
		if pov.EligibleForPrivileged(zone) {
			return Availability{NextChange: privileged.NextEnd}
		}
		return Availability{AvailableFrom: privileged.NextEnd, NextChange: privileged.NextEnd}
	}
	return Availability{AvailableUntil: privileged.NextStart, NextChange: privileged.NextStart}
}

// Resolver computes segment availability from the privileged-hours calendar.
type Resolver struct {
	privileged *tariff.Calendar
}

// NewResolver creates a resolver over a calendar keyed by zone code.
func NewResolver(privileged *tariff.Calendar) *Resolver {
	return &Resolver{privileged: privileged}
}

// Compute returns the availability of facts at now for the permit holder.
func (r *Resolver) Compute(ctx context.Context, facts segment.Facts, now time.Time, pov permit.Snapshot) (Availability, error) {
	if facts.ParkingType != segment.ParkingPrivileged || facts.ZoneCode == "" {
		return Availability{}, nil
	}
	st, err := r.privileged.GetStatus(ctx, facts.ZoneCode, now)
	if err != nil {
		return Availability{}, fmt.Errorf("privileged calendar for zone %s: %w", facts.ZoneCode, err)
	}
	return FromPrivilegedStatus(facts.ParkingType, facts.ZoneCode, st, pov), nil
}
