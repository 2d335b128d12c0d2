package segment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParkingType is the static category of a street segment.
type ParkingType string

const (
	ParkingFree       ParkingType = "free"
	ParkingPaid       ParkingType = "paid"
	ParkingPrivileged ParkingType = "privileged"
)

// ParseParkingType accepts the API spelling of a parking type, case-insensitive.
func ParseParkingType(raw string) (ParkingType, error) {
	switch pt := ParkingType(strings.ToLower(strings.TrimSpace(raw))); pt {
	case ParkingFree, ParkingPaid, ParkingPrivileged:
		return pt, nil
	}
	return "", fmt.Errorf("unknown parking type: %q", raw)
}

// Metered reports whether parking on the segment is subject to a tariff.
func (p ParkingType) Metered() bool { return p == ParkingPaid }

// Facts are the static attributes of a segment the engine evaluates.
// Geometry is carried through untouched.
type Facts struct {
	ID          string          `json:"id"`
	ZoneCode    string          `json:"zone_code,omitempty"`
	TariffID    string          `json:"tariff_id,omitempty"`
	ParkingType ParkingType     `json:"parking_type"`
	Geometry    json.RawMessage `json:"geometry,omitempty"`
}
