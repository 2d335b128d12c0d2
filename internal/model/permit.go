package model

import "time"

// Permit kinds as stored by the permit administration layer.
const (
	PermitKindResident   = "resident"
	PermitKindDisability = "disability"
)

// Permit is the read side of a driver's parking permit.
type Permit struct {
	ID         string `gorm:"primaryKey;size:64"`
	Kind       string `gorm:"size:32;not null"`
	ZoneCode   string `gorm:"size:64"`
	VehicleID  string `gorm:"size:64;index"`
	ValidFrom  *time.Time
	ValidUntil *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
