package evaluate

import (
	"context"
	"fmt"
	"time"

	"curbside-backend/internal/availability"
	"curbside-backend/internal/classify"
	"curbside-backend/internal/metrics"
	"curbside-backend/internal/payment"
	"curbside-backend/internal/permit"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/tariff"
)

// NormalizeMinParking maps a requested look-ahead outside [1, 720] minutes to def.
func NormalizeMinParking(minutes, def int) int {
	if minutes < 1 || minutes > classify.MaxHorizonMinutes {
		return def
	}
	return minutes
}

// Evaluation is the engine output for one segment.
type Evaluation struct {
	Segment      segment.Facts
	Result       classify.Result
	Availability availability.Availability
	Calendar     tariff.Status
	DecisionNow  payment.Decision
}

// NextChange is the instant at which the evaluated state is expected to
// change: the restriction or payment change for RESTRICTED and pending PAID
// results, the end of metering while paying, and the availability change otherwise.
func (e Evaluation) NextChange() *time.Time {
	switch e.Result.Group {
	case classify.GroupRestricted:
		return e.Result.At
	case classify.GroupPaid:
		if e.Result.PayNow {
			return e.Calendar.NextEnd
		}
		return e.Result.At
	}
	return e.Availability.NextChange
}

// Request is a batch of segments evaluated for one driver at one instant.
type Request struct {
	Segments          []segment.Facts
	Permit            permit.Snapshot
	Now               time.Time
	MinParkingMinutes int
}

// Evaluator runs calendar, availability, payment and classification per segment.
type Evaluator struct {
	tariffs  *tariff.Calendar
	resolver *availability.Resolver
	decider  *payment.Decider
}

// NewEvaluator wires the engine components.
func NewEvaluator(tariffs *tariff.Calendar, resolver *availability.Resolver, decider *payment.Decider) *Evaluator {
	return &Evaluator{tariffs: tariffs, resolver: resolver, decider: decider}
}

// Evaluate classifies every segment of the request.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) ([]Evaluation, error) {
	started := time.Now()
	defer func() { metrics.ObserveEvaluation(time.Since(started)) }()

	out := make([]Evaluation, 0, len(req.Segments))
	for _, facts := range req.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := e.EvaluateSegment(ctx, facts, req.Permit, req.Now, req.MinParkingMinutes)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// EvaluateSegment classifies a single segment at now.
func (e *Evaluator) EvaluateSegment(ctx context.Context, facts segment.Facts, pov permit.Snapshot, now time.Time, minParkingMinutes int) (Evaluation, error) {
	now = now.In(e.tariffs.Location())

	cal, err := e.tariffs.GetStatus(ctx, facts.TariffID, now)
	if err != nil {
		return Evaluation{}, fmt.Errorf("segment %s: %w", facts.ID, err)
	}
	avail, err := e.resolver.Compute(ctx, facts, now, pov)
	if err != nil {
		return Evaluation{}, fmt.Errorf("segment %s: %w", facts.ID, err)
	}
	decisionNow, err := e.decider.Decide(ctx, facts, now, pov, cal.ActiveNow)
	if err != nil {
		return Evaluation{}, fmt.Errorf("segment %s: %w", facts.ID, err)
	}

	// The future decision only matters while parking is free now.
	var atPaidStart *payment.Decision
	horizonEnd := classify.Horizon(now, minParkingMinutes)
	if paidStart := classify.PaidWindowStart(cal, now); decisionNow.PayNow == payment.Free && paidStart != nil && !paidStart.After(horizonEnd) {
		d, err := e.decider.Decide(ctx, facts, *paidStart, pov, true)
		if err != nil {
			return Evaluation{}, fmt.Errorf("segment %s at paid start: %w", facts.ID, err)
		}
		atPaidStart = &d
	}

	result := classify.Classify(classify.Input{
		ParkingType:       facts.ParkingType,
		Availability:      avail,
		DecisionNow:       decisionNow,
		AtPaidStart:       atPaidStart,
		Calendar:          cal,
		Now:               now,
		MinParkingMinutes: minParkingMinutes,
	})
	metrics.IncClassification(string(result.Group))

	return Evaluation{
		Segment:      facts,
		Result:       result,
		Availability: avail,
		Calendar:     cal,
		DecisionNow:  decisionNow,
	}, nil
}
