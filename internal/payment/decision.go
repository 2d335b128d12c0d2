package payment

import (
	"context"
	"fmt"
	"time"

	"curbside-backend/internal/permit"
	"curbside-backend/internal/segment"
)

// PayNow tells whether the driver pays at the decision instant.
type PayNow string

const (
	Free PayNow = "free"
	Paid PayNow = "paid"
)

// Reason is the rule that produced a decision.
type Reason string

const (
	ReasonAfterHours             Reason = "after_hours"
	ReasonDisabilityPermitHolder Reason = "disability_permit_holder"
	ReasonPermitHomeZone         Reason = "permit_home_zone"
	ReasonRemainingDailyBudget   Reason = "remaining_daily_budget"
	ReasonTariffPaid             Reason = "tariff_paid"
)

// PermitExempt reports reasons that come from the permit itself rather than
// the consumable budget; they do not lapse within an evaluation horizon.
func (r Reason) PermitExempt() bool {
	return r == ReasonDisabilityPermitHolder || r == ReasonPermitHomeZone
}

// Decision is the outcome of the payment rules at one instant.
// RemainingMinutes is only meaningful for ReasonRemainingDailyBudget.
type Decision struct {
	PayNow           PayNow `json:"pay_now"`
	Reason           Reason `json:"reason"`
	RemainingMinutes int    `json:"remaining_minutes,omitempty"`
}

// Budget exposes the daily free-parking budget of a vehicle. RemainingAt makes
// sure a ledger row exists for the anchor day of at and returns what is left
// of it without consuming anything.
type Budget interface {
	RemainingAt(ctx context.Context, vehicleID string, at time.Time) (int, error)
}

// Decider applies the payment rules.
type Decider struct {
	budget Budget
}

// NewDecider creates a decider reading the given budget.
func NewDecider(budget Budget) *Decider {
	return &Decider{budget: budget}
}

// Decide returns whether the holder of pov pays at now on the segment. Rules
// are evaluated in order and the first match wins.
func (d *Decider) Decide(ctx context.Context, facts segment.Facts, now time.Time, pov permit.Snapshot, calendarActive bool) (Decision, error) {
	if !calendarActive {
		return Decision{PayNow: Free, Reason: ReasonAfterHours}, nil
	}

	switch pov.Kind() {
	case permit.KindDisability:
		return Decision{PayNow: Free, Reason: ReasonDisabilityPermitHolder}, nil
	case permit.KindZoneResident:
		zone, _ := pov.ResidentZone()
		if facts.ZoneCode != "" && zone == facts.ZoneCode {
			return Decision{PayNow: Free, Reason: ReasonPermitHomeZone}, nil
		}
		vehicleID, ok := pov.VehicleID()
		if !ok {
			break
		}
		remaining, err := d.budget.RemainingAt(ctx, vehicleID, now)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to read daily budget for vehicle %s: %w", vehicleID, err)
		}
		if remaining > 0 {
			return Decision{PayNow: Free, Reason: ReasonRemainingDailyBudget, RemainingMinutes: remaining}, nil
		}
	}
	return Decision{PayNow: Paid, Reason: ReasonTariffPaid}, nil
}
