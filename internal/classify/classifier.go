package classify

import (
	"fmt"
	"time"

	"curbside-backend/internal/availability"
	"curbside-backend/internal/payment"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/tariff"
)

// MaxHorizonMinutes caps the look-ahead regardless of what the caller asks for.
const MaxHorizonMinutes = 720

// Group is the map colour class of a segment.
type Group string

const (
	GroupNoParking  Group = "NOPARKING"
	GroupRestricted Group = "RESTRICTED"
	GroupFree       Group = "FREE"
	GroupPaid       Group = "PAID"
)

// Reason identifies the rule behind a result; the instant it refers to is in Result.At.
type Reason string

const (
	ReasonPrivilegedRestriction Reason = "privileged_restriction"
	ReasonBecomesPrivileged     Reason = "becomes_privileged"
	ReasonFreeUntil             Reason = "free_until"
	ReasonBecomesPaid           Reason = "becomes_paid"
	ReasonBecomesFree           Reason = "becomes_free"
	ReasonRemainsPaid           Reason = "remains_paid"
)

// Result is the classification of one segment. PayLater means the payment or
// legality status changes before the horizon ends, even when already paying.
type Result struct {
	Group    Group
	Reason   Reason
	At       *time.Time
	PayNow   bool
	PayLater bool
}

// Message renders the reason for display.
func (r Result) Message() string {
	var at string
	if r.At != nil {
		at = r.At.Format("2006-01-02 15:04")
	}
	switch r.Reason {
	case ReasonPrivilegedRestriction:
		return "privileged-zone restriction"
	case ReasonBecomesPrivileged:
		return fmt.Sprintf("will become privileged-zone parking at %s", at)
	case ReasonFreeUntil:
		return fmt.Sprintf("free parking until %s", at)
	case ReasonBecomesPaid:
		return fmt.Sprintf("will become paid parking at %s", at)
	case ReasonBecomesFree:
		return fmt.Sprintf("will become free parking at %s", at)
	case ReasonRemainsPaid:
		return fmt.Sprintf("will remain paid parking until %s", at)
	}
	return string(r.Reason)
}

// Input gathers everything the classifier needs about one segment.
// AtPaidStart is the payment decision re-run at the paid window start, when
// that start falls within the horizon.
type Input struct {
	ParkingType       segment.ParkingType
	Availability      availability.Availability
	DecisionNow       payment.Decision
	AtPaidStart       *payment.Decision
	Calendar          tariff.Status
	Now               time.Time
	MinParkingMinutes int
}

// Horizon returns now plus the requested minutes, capped at MaxHorizonMinutes.
func Horizon(now time.Time, minParkingMinutes int) time.Time {
	if minParkingMinutes > MaxHorizonMinutes {
		minParkingMinutes = MaxHorizonMinutes
	}
	return now.Add(time.Duration(minParkingMinutes) * time.Minute)
}

// PaidWindowStart is now when metering is active, else the next metered start.
func PaidWindowStart(cal tariff.Status, now time.Time) *time.Time {
	if cal.ActiveNow {
		return &now
	}
	return cal.NextStart
}

// Classify combines availability and payment decisions into one result.
func Classify(in Input) Result {
	horizonEnd := Horizon(in.Now, in.MinParkingMinutes)

	if in.Availability.RestrictedNow(in.Now) {
		return Result{Group: GroupNoParking, Reason: ReasonPrivilegedRestriction}
	}

	if in.DecisionNow.PayNow == payment.Free {
		return classifyFreeNow(in, horizonEnd)
	}
	return classifyPaidNow(in, horizonEnd)
}

func classifyFreeNow(in Input, horizonEnd time.Time) Result {
	freeForHorizon := Result{Group: GroupFree, Reason: ReasonFreeUntil, At: &horizonEnd}
	next := in.Availability.NextChange

	if in.ParkingType == segment.ParkingPrivileged && next != nil && next.Before(horizonEnd) &&
		!in.Calendar.ActiveNow && !in.DecisionNow.Reason.PermitExempt() {
		return Result{Group: GroupRestricted, Reason: ReasonBecomesPrivileged, At: next}
	}
	if in.DecisionNow.Reason.PermitExempt() {
		return freeForHorizon
	}

	paidStart := PaidWindowStart(in.Calendar, in.Now)
	if in.AtPaidStart == nil || paidStart == nil || paidStart.After(horizonEnd) {
		return freeForHorizon
	}

	future := *in.AtPaidStart
	switch {
	case future.PayNow == payment.Free && future.Reason == payment.ReasonRemainingDailyBudget:
		budgetEnd := paidStart.Add(time.Duration(future.RemainingMinutes) * time.Minute)
		if !budgetEnd.Before(horizonEnd) {
			return freeForHorizon
		}
		return Result{Group: GroupPaid, Reason: ReasonBecomesPaid, At: &budgetEnd, PayLater: true}
	case future.PayNow == payment.Free:
		return freeForHorizon
	default:
		return Result{Group: GroupPaid, Reason: ReasonBecomesPaid, At: paidStart, PayLater: true}
	}
}

func classifyPaidNow(in Input, horizonEnd time.Time) Result {
	next := in.Availability.NextChange
	if in.ParkingType == segment.ParkingPrivileged && in.Calendar.ActiveNow && next != nil && !next.After(horizonEnd) {
		return Result{Group: GroupRestricted, Reason: ReasonBecomesPrivileged, At: next, PayNow: true, PayLater: true}
	}
	if end := in.Calendar.NextEnd; in.Calendar.ActiveNow && end != nil && !end.After(horizonEnd) {
		return Result{Group: GroupPaid, Reason: ReasonBecomesFree, At: end, PayNow: true, PayLater: true}
	}
	return Result{Group: GroupPaid, Reason: ReasonRemainsPaid, At: &horizonEnd, PayNow: true, PayLater: true}
}
