package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"curbside-backend/internal/budget"
	"curbside-backend/internal/evaluate"
	"curbside-backend/internal/metrics"
	"curbside-backend/internal/model"
	"curbside-backend/internal/permit"
	"curbside-backend/internal/segment"
	"curbside-backend/internal/store"
)

var (
	ErrActiveSessionExists = store.ErrActiveSessionExists
	ErrSessionNotFound     = store.ErrSessionNotFound
	ErrSessionNotActive    = store.ErrSessionNotActive
	ErrVehicleRequired     = errors.New("vehicle id is required")
)

// PermitResolver turns a permit reference into a snapshot.
type PermitResolver interface {
	Resolve(ctx context.Context, permitID, vehicleID string, at time.Time) (permit.Snapshot, error)
}

// SegmentEvaluator classifies one segment.
type SegmentEvaluator interface {
	EvaluateSegment(ctx context.Context, facts segment.Facts, pov permit.Snapshot, now time.Time, minParkingMinutes int) (evaluate.Evaluation, error)
}

// Calculator charges the ledger for a stopped session.
type Calculator interface {
	Calculate(ctx context.Context, s *model.ParkingSession, now time.Time) (budget.Calculation, error)
}

// StartRequest describes a driver parking on a segment.
type StartRequest struct {
	VehicleID      string
	PermitID       string
	Segment        segment.Facts
	PlannedMinutes int
	At             time.Time
}

// Service runs the parking session lifecycle.
type Service struct {
	store      store.Store
	permits    PermitResolver
	evaluator  SegmentEvaluator
	calculator Calculator
	minParking int
	now        func() time.Time
}

// NewService creates a session service. defaultMinParking is the horizon used
// when a start request carries no planned duration.
func NewService(st store.Store, permits PermitResolver, evaluator SegmentEvaluator, calculator Calculator, defaultMinParking int) *Service {
	return &Service{
		store:      st,
		permits:    permits,
		evaluator:  evaluator,
		calculator: calculator,
		minParking: defaultMinParking,
		now:        time.Now,
	}
}

// Start evaluates the segment and freezes the result into a new active session.
func (s *Service) Start(ctx context.Context, req StartRequest) (*model.ParkingSession, error) {
	if req.VehicleID == "" {
		return nil, ErrVehicleRequired
	}
	now := req.At
	if now.IsZero() {
		now = s.now()
	}

	pov, err := s.permits.Resolve(ctx, req.PermitID, req.VehicleID, now)
	if err != nil {
		return nil, err
	}
	horizon := evaluate.NormalizeMinParking(req.PlannedMinutes, s.minParking)
	ev, err := s.evaluator.EvaluateSegment(ctx, req.Segment, pov, now, horizon)
	if err != nil {
		return nil, err
	}

	sess := &model.ParkingSession{
		ID:                  uuid.NewString(),
		VehicleID:           req.VehicleID,
		PermitID:            req.PermitID,
		SegmentID:           req.Segment.ID,
		Group:               string(ev.Result.Group),
		Reason:              ev.Result.Message(),
		ParkingType:         string(req.Segment.ParkingType),
		ZoneCode:            req.Segment.ZoneCode,
		TariffID:            req.Segment.TariffID,
		IsPayNow:            ev.Result.PayNow,
		IsPayLater:          ev.Result.PayLater,
		TariffActiveAtStart: ev.Calendar.ActiveNow,
		NextChangeAt:        ev.NextChange(),
		StartedAt:           now,
		Status:              model.SessionActive,
	}
	if req.PlannedMinutes > 0 {
		planned := now.Add(time.Duration(req.PlannedMinutes) * time.Minute)
		sess.PlannedEndAt = &planned
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		if errors.Is(err, ErrActiveSessionExists) {
			metrics.IncSession(metrics.SessionConflict)
		}
		return nil, err
	}
	metrics.IncSession(metrics.SessionStarted)
	log.Printf("session %s started for vehicle %s on segment %s as %s", sess.ID, sess.VehicleID, sess.SegmentID, sess.Group)
	return sess, nil
}

// Stop ends an active session and charges the budget-eligible part of it.
// A zero now means the current time.
func (s *Service) Stop(ctx context.Context, sessionID string, now time.Time) (*model.ParkingSession, budget.Calculation, error) {
	if now.IsZero() {
		now = s.now()
	}

	claimed, err := s.store.ClaimStop(ctx, sessionID, now)
	if err != nil {
		return nil, budget.Calculation{}, err
	}

	calc, err := s.calculator.Calculate(ctx, claimed, now)
	if err != nil {
		return nil, budget.Calculation{}, fmt.Errorf("failed to calculate budget for session %s: %w", sessionID, err)
	}
	if err := s.store.SaveStopTotals(ctx, claimed); err != nil {
		return nil, budget.Calculation{}, err
	}

	metrics.IncSession(metrics.SessionStopped)
	log.Printf("session %s stopped: total=%d charged=%d free=%d paid=%d remaining=%d",
		sessionID, calc.TotalMinutes, calc.FreeMinutesCharged, calc.FreeMinutes, calc.PaidMinutes, calc.RemainingToday)
	return claimed, calc, nil
}

// Active returns the vehicle's current session.
func (s *Service) Active(ctx context.Context, vehicleID string) (*model.ParkingSession, error) {
	if vehicleID == "" {
		return nil, ErrVehicleRequired
	}
	return s.store.ActiveSession(ctx, vehicleID)
}
