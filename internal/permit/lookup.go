package permit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"curbside-backend/internal/model"
)

// Lookup resolves opaque permit identifiers into snapshots.
type Lookup struct {
	db *gorm.DB
}

// NewLookup creates a gorm-backed permit lookup.
func NewLookup(db *gorm.DB) *Lookup {
	return &Lookup{db: db}
}

// Resolve returns the snapshot for permitID at the given instant. A missing,
// expired or unrecognised permit degrades to None so evaluation can proceed.
// vehicleID is used when the permit row does not name a vehicle itself.
func (l *Lookup) Resolve(ctx context.Context, permitID, vehicleID string, at time.Time) (Snapshot, error) {
	if permitID == "" {
		return None(vehicleID), nil
	}

	var p model.Permit
	err := l.db.WithContext(ctx).First(&p, "id = ?", permitID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return None(vehicleID), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load permit %s: %w", permitID, err)
	}
	return FromModel(p, vehicleID, at), nil
}

// FromModel converts a stored permit into a snapshot valid at the given instant.
func FromModel(p model.Permit, vehicleID string, at time.Time) Snapshot {
	if p.VehicleID != "" {
		vehicleID = p.VehicleID
	}
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return None(vehicleID)
	}
	if p.ValidUntil != nil && !at.Before(*p.ValidUntil) {
		return None(vehicleID)
	}

	switch p.Kind {
	case model.PermitKindResident:
		return ZoneResident(p.ZoneCode, vehicleID)
	case model.PermitKindDisability:
		return Disability(vehicleID)
	default:
		log.Printf("permit %s has unrecognised kind %q; treating as no permit", p.ID, p.Kind)
		return None(vehicleID)
	}
}
