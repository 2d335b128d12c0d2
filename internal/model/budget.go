package model

import "time"

// ParkingDailyBudget is the ledger row of free minutes used by a vehicle on one anchor day.
// AnchorDate is the calendar date at UTC midnight; MinutesUsed stays within [0, 120].
type ParkingDailyBudget struct {
	VehicleID   string    `gorm:"primaryKey;size:64"`
	AnchorDate  time.Time `gorm:"primaryKey;type:date"`
	MinutesUsed int       `gorm:"not null;check:chk_parking_daily_budgets_minutes_used,minutes_used >= 0 AND minutes_used <= 120"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
