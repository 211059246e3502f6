package game

// Role is a territory's part in the active conflict.
type Role int

const (
	RoleNeutral Role = iota
	RoleAggressor
	RoleDefender
	RoleAlly
)

func (r Role) String() string {
	switch r {
	case RoleAggressor:
		return "aggressor"
	case RoleDefender:
		return "defender"
	case RoleAlly:
		return "ally"
	case RoleNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Territory is a named polygonal region on the globe. Immutable once loaded.
type Territory struct {
	ID       string     // stable identifier, e.g. "USA"
	Name     string     // display name
	Polygons [][]LatLon // outer rings of the (multi)polygon, degrees
	Centroid LatLon     // precomputed at load
}

// Contains reports whether the point lies inside any of the territory's rings.
func (t *Territory) Contains(p LatLon) bool {
	for _, ring := range t.Polygons {
		if pointInRing(p, ring) {
			return true
		}
	}
	return false
}
