package game

import "errors"

var (
	// ErrNilTerritory is returned when a toggle is attempted with no target.
	ErrNilTerritory = errors.New("no territory to assign")
	// ErrTerritoryEngaged is returned when a territory already holds a
	// different role; it must be toggled out of that role first.
	ErrTerritoryEngaged = errors.New("territory already holds another role")
	// ErrInvalidRole is returned for toggles against the neutral role.
	ErrInvalidRole = errors.New("cannot assign the neutral role")
)

// Selection tracks which territories hold which conflict roles. At most one
// aggressor, at most one defender, and an ordered ally list. A territory
// never holds two roles at once.
type Selection struct {
	Aggressor *Territory
	Defender  *Territory
	Allies    []*Territory // join order preserved
}

// RoleOf classifies a territory by direct identifier comparison.
func (s *Selection) RoleOf(t *Territory) Role {
	if t == nil {
		return RoleNeutral
	}
	if s.Aggressor != nil && s.Aggressor.ID == t.ID {
		return RoleAggressor
	}
	if s.Defender != nil && s.Defender.ID == t.ID {
		return RoleDefender
	}
	for _, a := range s.Allies {
		if a.ID == t.ID {
			return RoleAlly
		}
	}
	return RoleNeutral
}

// Toggle applies a click assignment in the given mode. A territory already
// holding the same role is cleared from it (idempotent toggle); one holding a
// different role is rejected unchanged.
func (s *Selection) Toggle(role Role, t *Territory) error {
	if t == nil {
		return ErrNilTerritory
	}
	current := s.RoleOf(t)
	if current == role && role != RoleNeutral {
		s.remove(t)
		return nil
	}
	if current != RoleNeutral {
		return ErrTerritoryEngaged
	}

	switch role {
	case RoleAggressor:
		s.Aggressor = t
	case RoleDefender:
		s.Defender = t
	case RoleAlly:
		s.Allies = append(s.Allies, t)
	default:
		return ErrInvalidRole
	}
	return nil
}

// remove clears the territory from whichever role it holds.
func (s *Selection) remove(t *Territory) {
	if s.Aggressor != nil && s.Aggressor.ID == t.ID {
		s.Aggressor = nil
		return
	}
	if s.Defender != nil && s.Defender.ID == t.ID {
		s.Defender = nil
		return
	}
	for i, a := range s.Allies {
		if a.ID == t.ID {
			s.Allies = append(s.Allies[:i], s.Allies[i+1:]...)
			return
		}
	}
}

// Clear resets the whole selection.
func (s *Selection) Clear() {
	s.Aggressor = nil
	s.Defender = nil
	s.Allies = nil
}

// ConflictReady reports whether both principal roles are filled.
func (s *Selection) ConflictReady() bool {
	return s.Aggressor != nil && s.Defender != nil
}
