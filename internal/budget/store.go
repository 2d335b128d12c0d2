package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"curbside-backend/internal/model"
)

// ErrNoBudgetRow is returned when minutes are added to a day that was never reset.
var ErrNoBudgetRow = errors.New("no budget row for anchor day")

// Store persists ledger rows keyed by (vehicle, anchor date).
type Store interface {
	EnsureReset(ctx context.Context, vehicleID string, anchor time.Time) error
	MinutesUsed(ctx context.Context, vehicleID string, anchor time.Time) (int, error)
	AddMinutes(ctx context.Context, vehicleID string, anchor time.Time, delta int) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed ledger store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// EnsureReset inserts a zero-usage row unless one already exists.
func (s *gormStore) EnsureReset(ctx context.Context, vehicleID string, anchor time.Time) error {
	row := model.ParkingDailyBudget{VehicleID: vehicleID, AnchorDate: anchor}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to reset budget for vehicle %s on %s: %w", vehicleID, anchor.Format(time.DateOnly), err)
	}
	return nil
}

// MinutesUsed returns the stored usage; an absent row counts as zero.
func (s *gormStore) MinutesUsed(ctx context.Context, vehicleID string, anchor time.Time) (int, error) {
	var row model.ParkingDailyBudget
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND anchor_date = ?", vehicleID, anchor).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read budget for vehicle %s: %w", vehicleID, err)
	}
	return row.MinutesUsed, nil
}

// AddMinutes increments usage in a single conditional UPDATE so concurrent
// callers can neither lose an increment nor push the row past the allowance.
func (s *gormStore) AddMinutes(ctx context.Context, vehicleID string, anchor time.Time, delta int) error {
	if delta <= 0 {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.ParkingDailyBudget{}).
		Where("vehicle_id = ? AND anchor_date = ?", vehicleID, anchor).
		Update("minutes_used", gorm.Expr(
			"CASE WHEN minutes_used + ? > ? THEN ? ELSE minutes_used + ? END",
			delta, DailyAllowanceMinutes, DailyAllowanceMinutes, delta,
		))
	if res.Error != nil {
		return fmt.Errorf("failed to consume budget for vehicle %s: %w", vehicleID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: vehicle %s on %s", ErrNoBudgetRow, vehicleID, anchor.Format(time.DateOnly))
	}
	return nil
}
