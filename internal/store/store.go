package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"curbside-backend/internal/model"
)

var (
	// ErrActiveSessionExists is returned when the vehicle already has a session without a stop time.
	ErrActiveSessionExists = errors.New("vehicle already has an active parking session")
	ErrSessionNotFound     = errors.New("parking session not found")
	ErrSessionNotActive    = errors.New("parking session is not active")
)

// Store defines the persistence operations of the session lifecycle.
type Store interface {
	CreateSession(ctx context.Context, session *model.ParkingSession) error
	GetSession(ctx context.Context, sessionID string) (*model.ParkingSession, error)
	ActiveSession(ctx context.Context, vehicleID string) (*model.ParkingSession, error)
	ClaimStop(ctx context.Context, sessionID string, now time.Time) (*model.ParkingSession, error)
	SaveStopTotals(ctx context.Context, session *model.ParkingSession) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// CreateSession inserts a new active session. The check for an existing
// active session and the insert share a transaction; the partial unique
// index catches the race the check cannot.
func (s *gormStore) CreateSession(ctx context.Context, session *model.ParkingSession) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.ParkingSession{}).
			Where("vehicle_id = ? AND stopped_at IS NULL", session.VehicleID).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to check active session for vehicle %s: %w", session.VehicleID, err)
		}
		if active > 0 {
			return ErrActiveSessionExists
		}

		if err := tx.Create(session).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrActiveSessionExists
			}
			return fmt.Errorf("failed to create session for vehicle %s: %w", session.VehicleID, err)
		}
		return nil
	})
}

func (s *gormStore) GetSession(ctx context.Context, sessionID string) (*model.ParkingSession, error) {
	var session model.ParkingSession
	err := s.db.WithContext(ctx).Where("id = ?", sessionID).Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *gormStore) ActiveSession(ctx context.Context, vehicleID string) (*model.ParkingSession, error) {
	var session model.ParkingSession
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND stopped_at IS NULL", vehicleID).
		Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active session for vehicle %s: %w", vehicleID, err)
	}
	return &session, nil
}

// ClaimStop marks the session stopped only if it is still active, so two
// concurrent stops cannot both proceed to charge the ledger. It returns the
// claimed row.
func (s *gormStore) ClaimStop(ctx context.Context, sessionID string, now time.Time) (*model.ParkingSession, error) {
	var claimed model.ParkingSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ParkingSession{}).
			Where("id = ? AND stopped_at IS NULL", sessionID).
			Updates(map[string]interface{}{
				"stopped_at": now,
				"status":     model.SessionStopped,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim session %s: %w", sessionID, res.Error)
		}

		err := tx.Where("id = ?", sessionID).Take(&claimed).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &claimed, nil
}

// SaveStopTotals persists the outcome of the budget calculation.
func (s *gormStore) SaveStopTotals(ctx context.Context, session *model.ParkingSession) error {
	err := s.db.WithContext(ctx).Model(session).Updates(map[string]interface{}{
		"stopped_at":          session.StoppedAt,
		"status":              session.Status,
		"budget_used_minutes": session.BudgetUsedMinutes,
		"paid_minutes":        session.PaidMinutes,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save totals for session %s: %w", session.ID, err)
	}
	return nil
}
