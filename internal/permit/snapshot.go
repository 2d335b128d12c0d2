package permit

// Kind discriminates the permit variants.
type Kind int

const (
	KindNone Kind = iota
	KindZoneResident
	KindDisability
)

func (k Kind) String() string {
	switch k {
	case KindZoneResident:
		return "zone_resident"
	case KindDisability:
		return "disability"
	default:
		return "none"
	}
}

// Snapshot is the request-scoped view of a driver's standing. It is a closed
// union: the zone is only reachable for KindZoneResident, and every variant may
// carry a vehicle id. The zero value is None without a vehicle.
type Snapshot struct {
	kind      Kind
	zone      string
	vehicleID string
}

// None is the snapshot of a driver without a usable permit.
func None(vehicleID string) Snapshot {
	return Snapshot{kind: KindNone, vehicleID: vehicleID}
}

// ZoneResident is a resident permit for zone. An empty zone yields None.
func ZoneResident(zone, vehicleID string) Snapshot {
	if zone == "" {
		return None(vehicleID)
	}
	return Snapshot{kind: KindZoneResident, zone: zone, vehicleID: vehicleID}
}

// Disability is a disability permit.
func Disability(vehicleID string) Snapshot {
	return Snapshot{kind: KindDisability, vehicleID: vehicleID}
}

func (s Snapshot) Kind() Kind { return s.kind }

// ResidentZone returns the home zone of a resident permit.
func (s Snapshot) ResidentZone() (string, bool) {
	if s.kind != KindZoneResident {
		return "", false
	}
	return s.zone, true
}

// VehicleID returns the vehicle the snapshot was resolved for, if any.
func (s Snapshot) VehicleID() (string, bool) {
	return s.vehicleID, s.vehicleID != ""
}

// EligibleForPrivileged reports whether the holder may park on privileged
// segments of zone during privileged hours.
func (s Snapshot) EligibleForPrivileged(zone string) bool {
	switch s.kind {
	case KindDisability:
		return true
	case KindZoneResident:
		return zone != "" && s.zone == zone
	}
	return false
}
