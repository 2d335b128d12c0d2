package model

import "time"

// TariffWindow is one weekly interval during which a tariff is metered.
// StartMinute and EndMinute are local minutes since midnight, EndMinute in (StartMinute, 1440].
type TariffWindow struct {
	ID          int64        `gorm:"primaryKey"`
	TariffID    string       `gorm:"size:64;not null;uniqueIndex:idx_tariff_window_key"`
	Weekday     time.Weekday `gorm:"not null;uniqueIndex:idx_tariff_window_key"`
	StartMinute int          `gorm:"not null;uniqueIndex:idx_tariff_window_key"`
	EndMinute   int          `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PrivilegedWindow is one weekly interval during which privileged segments of a zone
// are reserved for the zone's residents.
type PrivilegedWindow struct {
	ID          int64        `gorm:"primaryKey"`
	ZoneCode    string       `gorm:"size:64;not null;uniqueIndex:idx_privileged_window_key"`
	Weekday     time.Weekday `gorm:"not null;uniqueIndex:idx_privileged_window_key"`
	StartMinute int          `gorm:"not null;uniqueIndex:idx_privileged_window_key"`
	EndMinute   int          `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
