package budget

import (
	"context"
	"time"

	"curbside-backend/internal/classify"
	"curbside-backend/internal/metrics"
	"curbside-backend/internal/model"
	"curbside-backend/internal/segment"
)

// Calculation summarises a stopped session.
type Calculation struct {
	TotalMinutes       int `json:"total_minutes"`
	PaidMinutes        int `json:"paid_minutes"`
	FreeMinutes        int `json:"free_minutes"`
	FreeMinutesCharged int `json:"free_minutes_charged"`
	RemainingToday     int `json:"remaining_today"`
}

// Calculate draws the budget-eligible part of [StartedAt, now) from the ledger
// and marks the session stopped. When now is not after StartedAt the ledger is
// left untouched and all usage is zero.
func (l *Ledger) Calculate(ctx context.Context, s *model.ParkingSession, now time.Time) (Calculation, error) {
	var calc Calculation
	if !now.After(s.StartedAt) {
		remaining, err := l.GetRemainingMinutes(ctx, s.VehicleID, l.ToAnchor(now))
		if err != nil {
			return Calculation{}, err
		}
		calc.RemainingToday = remaining
		markStopped(s, now, calc)
		return calc, nil
	}

	calc.TotalMinutes = CeilMinutes(now.Sub(s.StartedAt))

	if start, end, ok := eligibleWindow(s, now); ok {
		for _, slice := range l.SliceByAnchorBoundary(start, end) {
			if err := l.EnsureReset(ctx, s.VehicleID, slice.Anchor); err != nil {
				return Calculation{}, err
			}
			remaining, err := l.GetRemainingMinutes(ctx, s.VehicleID, slice.Anchor)
			if err != nil {
				return Calculation{}, err
			}
			take := min(remaining, slice.Minutes())
			if take <= 0 {
				continue
			}
			if err := l.store.AddMinutes(ctx, s.VehicleID, slice.Anchor, take); err != nil {
				return Calculation{}, err
			}
			calc.FreeMinutesCharged += take
		}
		metrics.AddBudgetMinutesCharged(calc.FreeMinutesCharged)
	}

	group := classify.Group(s.Group)
	pendingPayLater := s.IsPayLater && !s.IsPayNow
	switch {
	case group == classify.GroupFree:
		calc.FreeMinutes = calc.TotalMinutes
	case !pendingPayLater && s.NextChangeAt != nil && s.NextChangeAt.Before(now):
		calc.FreeMinutes = CeilMinutes(now.Sub(*s.NextChangeAt))
	}

	if group != classify.GroupFree {
		calc.PaidMinutes = max(0, calc.TotalMinutes-calc.FreeMinutesCharged-calc.FreeMinutes)
	}

	remaining, err := l.GetRemainingMinutes(ctx, s.VehicleID, l.ToAnchor(now))
	if err != nil {
		return Calculation{}, err
	}
	calc.RemainingToday = remaining
	markStopped(s, now, calc)
	return calc, nil
}

// eligibleWindow returns the part of the session that may draw from the
// budget, based on the facts frozen when it started.
func eligibleWindow(s *model.ParkingSession, now time.Time) (time.Time, time.Time, bool) {
	start, end := s.StartedAt, now
	next := s.NextChangeAt

	switch classify.Group(s.Group) {
	case classify.GroupFree:
		if !segment.ParkingType(s.ParkingType).Metered() || !s.TariffActiveAtStart {
			return time.Time{}, time.Time{}, false
		}
	case classify.GroupPaid:
		switch {
		case s.IsPayNow && !s.IsPayLater && next != nil:
			end = *next
		case !s.IsPayNow && s.IsPayLater && next != nil && !next.After(now):
			start = *next
		}
	case classify.GroupRestricted:
		if next != nil {
			end = *next
		}
	default:
		return time.Time{}, time.Time{}, false
	}

	if end.After(now) {
		end = now
	}
	return start, end, end.After(start)
}

func markStopped(s *model.ParkingSession, now time.Time, calc Calculation) {
	stoppedAt := now
	s.StoppedAt = &stoppedAt
	s.Status = model.SessionStopped
	s.BudgetUsedMinutes = calc.FreeMinutesCharged
	s.PaidMinutes = calc.PaidMinutes
}
