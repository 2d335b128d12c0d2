package model

import "time"

// SessionStatus is the lifecycle state of a parking session.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionStopped SessionStatus = "stopped"
)

// ParkingSession freezes the classification of a segment at the moment a driver parked.
// At most one row per vehicle may have a NULL StoppedAt.
type ParkingSession struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	VehicleID string `gorm:"size:64;not null;index;uniqueIndex:idx_parking_sessions_active_vehicle,where:stopped_at IS NULL" json:"vehicle_id"`
	PermitID  string `gorm:"size:64" json:"permit_id,omitempty"`
	SegmentID string `gorm:"size:64;not null" json:"segment_id"`

	Group               string     `gorm:"size:16;not null" json:"group"`
	Reason              string     `gorm:"size:255;not null" json:"reason"`
	ParkingType         string     `gorm:"size:32;not null" json:"parking_type"`
	ZoneCode            string     `gorm:"size:64" json:"zone_code,omitempty"`
	TariffID            string     `gorm:"size:64" json:"tariff_id,omitempty"`
	IsPayNow            bool       `gorm:"not null" json:"pay_now"`
	IsPayLater          bool       `gorm:"not null" json:"pay_later"`
	TariffActiveAtStart bool       `gorm:"not null" json:"tariff_active_at_start"`
	NextChangeAt        *time.Time `json:"next_change_at,omitempty"`

	StartedAt         time.Time     `gorm:"not null" json:"started_at"`
	PlannedEndAt      *time.Time    `json:"planned_end_at,omitempty"`
	StoppedAt         *time.Time    `json:"stopped_at,omitempty"`
	BudgetUsedMinutes int           `gorm:"not null" json:"budget_used_minutes"`
	PaidMinutes       int           `gorm:"not null" json:"paid_minutes"`
	Status            SessionStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
