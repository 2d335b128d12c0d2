package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"curbside-backend/internal/availability"
	"curbside-backend/internal/payment"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/tariff"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func in(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestClassify(t *testing.T) {
	afterHours := payment.Decision{PayNow: payment.Free, Reason: payment.ReasonAfterHours}
	tariffPaid := payment.Decision{PayNow: payment.Paid, Reason: payment.ReasonTariffPaid}
	homeZone := payment.Decision{PayNow: payment.Free, Reason: payment.ReasonPermitHomeZone}
	budget := func(r int) *payment.Decision {
		return &payment.Decision{PayNow: payment.Free, Reason: payment.ReasonRemainingDailyBudget, RemainingMinutes: r}
	}

	testCases := []struct {
		name     string
		input    Input
		expected Result
	}{
		{
			name: "Restricted now wins over everything",
			input: Input{
				ParkingType:       segment.ParkingPrivileged,
				Availability:      availability.Availability{AvailableFrom: in(2 * time.Hour), NextChange: in(2 * time.Hour)},
				DecisionNow:       tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(time.Hour)},
				MinParkingMinutes: 120,
			},
			expected: Result{Group: GroupNoParking, Reason: ReasonPrivilegedRestriction},
		},
		{
			name: "Home zone resident stays free regardless of calendar",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       homeZone,
				AtPaidStart:       &tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(time.Hour)},
				MinParkingMinutes: 120,
			},
			expected: Result{Group: GroupFree, Reason: ReasonFreeUntil, At: in(2 * time.Hour)},
		},
		{
			name: "After hours with paid window inside the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       afterHours,
				AtPaidStart:       &tariffPaid,
				Calendar:          tariff.Status{NextStart: in(3 * time.Hour), NextEnd: in(10 * time.Hour)},
				MinParkingMinutes: 240,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonBecomesPaid, At: in(3 * time.Hour), PayLater: true},
		},
		{
			name: "After hours with paid window beyond the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       afterHours,
				AtPaidStart:       &tariffPaid,
				Calendar:          tariff.Status{NextStart: in(5 * time.Hour), NextEnd: in(10 * time.Hour)},
				MinParkingMinutes: 240,
			},
			expected: Result{Group: GroupFree, Reason: ReasonFreeUntil, At: in(4 * time.Hour)},
		},
		{
			name: "After hours without a future decision",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       afterHours,
				Calendar:          tariff.Status{NextStart: in(time.Hour)},
				MinParkingMinutes: 240,
			},
			expected: Result{Group: GroupFree, Reason: ReasonFreeUntil, At: in(4 * time.Hour)},
		},
		{
			name: "Privileged hours begin inside the horizon",
			input: Input{
				ParkingType:       segment.ParkingPrivileged,
				Availability:      availability.Availability{AvailableUntil: in(10 * time.Minute), NextChange: in(10 * time.Minute)},
				DecisionNow:       afterHours,
				MinParkingMinutes: 30,
			},
			expected: Result{Group: GroupRestricted, Reason: ReasonBecomesPrivileged, At: in(10 * time.Minute)},
		},
		{
			name: "Privileged hours do not affect a home zone resident",
			input: Input{
				ParkingType:       segment.ParkingPrivileged,
				Availability:      availability.Availability{AvailableUntil: in(10 * time.Minute), NextChange: in(10 * time.Minute)},
				DecisionNow:       homeZone,
				MinParkingMinutes: 30,
			},
			expected: Result{Group: GroupFree, Reason: ReasonFreeUntil, At: in(30 * time.Minute)},
		},
		{
			name: "Budget outlasts the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       afterHours,
				AtPaidStart:       budget(200),
				Calendar:          tariff.Status{NextStart: in(time.Hour), NextEnd: in(9 * time.Hour)},
				MinParkingMinutes: 240,
			},
			expected: Result{Group: GroupFree, Reason: ReasonFreeUntil, At: in(4 * time.Hour)},
		},
		{
			name: "Budget runs out inside the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       afterHours,
				AtPaidStart:       budget(30),
				Calendar:          tariff.Status{NextStart: in(time.Hour), NextEnd: in(9 * time.Hour)},
				MinParkingMinutes: 240,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonBecomesPaid, At: in(90 * time.Minute), PayLater: true},
		},
		{
			name: "Budget currently running",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       *budget(20),
				AtPaidStart:       budget(20),
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(5 * time.Hour)},
				MinParkingMinutes: 60,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonBecomesPaid, At: in(20 * time.Minute), PayLater: true},
		},
		{
			name: "Paid now, privileged hours follow inside the horizon",
			input: Input{
				ParkingType:       segment.ParkingPrivileged,
				Availability:      availability.Availability{AvailableUntil: in(30 * time.Minute), NextChange: in(30 * time.Minute)},
				DecisionNow:       tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(30 * time.Minute)},
				MinParkingMinutes: 60,
			},
			expected: Result{Group: GroupRestricted, Reason: ReasonBecomesPrivileged, At: in(30 * time.Minute), PayNow: true, PayLater: true},
		},
		{
			name: "Paid now, metering ends inside the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(time.Hour)},
				MinParkingMinutes: 120,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonBecomesFree, At: in(time.Hour), PayNow: true, PayLater: true},
		},
		{
			name: "Paid now, metering ends exactly at the horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(2 * time.Hour)},
				MinParkingMinutes: 120,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonBecomesFree, At: in(2 * time.Hour), PayNow: true, PayLater: true},
		},
		{
			name: "Paid for the whole horizon",
			input: Input{
				ParkingType:       segment.ParkingPaid,
				DecisionNow:       tariffPaid,
				Calendar:          tariff.Status{ActiveNow: true, NextEnd: in(8 * time.Hour)},
				MinParkingMinutes: 120,
			},
			expected: Result{Group: GroupPaid, Reason: ReasonRemainsPaid, At: in(2 * time.Hour), PayNow: true, PayLater: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.Now = now
			assert.Equal(t, tc.expected, Classify(tc.input))
		})
	}
}

func TestClassify_HorizonIsCapped(t *testing.T) {
	base := Input{
		ParkingType: segment.ParkingPaid,
		DecisionNow: payment.Decision{PayNow: payment.Paid, Reason: payment.ReasonTariffPaid},
		Calendar:    tariff.Status{ActiveNow: true, NextEnd: in(13 * time.Hour)},
		Now:         now,
	}
	capped := base
	capped.MinParkingMinutes = 1000
	exact := base
	exact.MinParkingMinutes = 720

	assert.Equal(t, Classify(exact), Classify(capped))
	assert.Equal(t, in(12*time.Hour), Classify(capped).At)
	assert.Equal(t, now.Add(12*time.Hour), Horizon(now, 5000))
}

func TestClassify_NoParkingNeverPays(t *testing.T) {
	decisions := []payment.Decision{
		{PayNow: payment.Free, Reason: payment.ReasonAfterHours},
		{PayNow: payment.Free, Reason: payment.ReasonRemainingDailyBudget, RemainingMinutes: 10},
		{PayNow: payment.Paid, Reason: payment.ReasonTariffPaid},
	}
	for _, d := range decisions {
		r := Classify(Input{
			ParkingType:       segment.ParkingPrivileged,
			Availability:      availability.Availability{AvailableFrom: in(time.Hour)},
			DecisionNow:       d,
			Calendar:          tariff.Status{ActiveNow: true},
			Now:               now,
			MinParkingMinutes: 60,
		})
		assert.Equal(t, GroupNoParking, r.Group)
		assert.False(t, r.PayNow)
		assert.False(t, r.PayLater)
	}
}

func TestResult_Message(t *testing.T) {
	at := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "will become paid parking at 2026-03-02 13:00", Result{Reason: ReasonBecomesPaid, At: &at}.Message())
	assert.Equal(t, "privileged-zone restriction", Result{Reason: ReasonPrivilegedRestriction}.Message())
	assert.Equal(t, "will remain paid parking until 2026-03-02 13:00", Result{Reason: ReasonRemainsPaid, At: &at}.Message())
}

func TestPaidWindowStart(t *testing.T) {
	assert.Equal(t, &now, PaidWindowStart(tariff.Status{ActiveNow: true}, now))
	assert.Equal(t, in(time.Hour), PaidWindowStart(tariff.Status{NextStart: in(time.Hour)}, now))
	assert.Nil(t, PaidWindowStart(tariff.Status{}, now))
}
