package budget

import (
	"context"
	"fmt"
	"time"

	"curbside-backend/internal/metrics"
)

// Ledger is the per-vehicle daily free-parking budget.
type Ledger struct {
	store Store
	loc   *time.Location
}

// NewLedger creates a ledger whose anchor days are computed in loc.
func NewLedger(store Store, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{store: store, loc: loc}
}

// ToAnchor returns the anchor date of t in the ledger's location.
func (l *Ledger) ToAnchor(t time.Time) time.Time {
	return ToAnchor(t, l.loc)
}

// SliceByAnchorBoundary splits [start, end) by anchor day.
func (l *Ledger) SliceByAnchorBoundary(start, end time.Time) []Slice {
	return SliceByAnchorBoundary(start, end, l.loc)
}

// EnsureReset creates the zero-usage row for the anchor day if it is missing.
func (l *Ledger) EnsureReset(ctx context.Context, vehicleID string, anchor time.Time) error {
	return l.store.EnsureReset(ctx, vehicleID, anchor)
}

// GetRemainingMinutes returns the unused allowance of the anchor day, never negative.
func (l *Ledger) GetRemainingMinutes(ctx context.Context, vehicleID string, anchor time.Time) (int, error) {
	used, err := l.store.MinutesUsed(ctx, vehicleID, anchor)
	if err != nil {
		return 0, err
	}
	return max(0, DailyAllowanceMinutes-used), nil
}

// RemainingAt ensures the row for the anchor day of at and returns its remaining minutes.
func (l *Ledger) RemainingAt(ctx context.Context, vehicleID string, at time.Time) (int, error) {
	anchor := l.ToAnchor(at)
	if err := l.EnsureReset(ctx, vehicleID, anchor); err != nil {
		return 0, err
	}
	return l.GetRemainingMinutes(ctx, vehicleID, anchor)
}

// Consume charges [start, end) against the budget, slice by slice, each
// increment clamped at the daily allowance.
func (l *Ledger) Consume(ctx context.Context, vehicleID string, start, end time.Time) error {
	for _, s := range l.SliceByAnchorBoundary(start, end) {
		if err := l.EnsureReset(ctx, vehicleID, s.Anchor); err != nil {
			return err
		}
		if err := l.store.AddMinutes(ctx, vehicleID, s.Anchor, s.Minutes()); err != nil {
			return fmt.Errorf("consume %s-%s: %w", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339), err)
		}
		metrics.AddBudgetMinutesCharged(s.Minutes())
	}
	return nil
}
