package game

import "github.com/google/uuid"

// PathKind distinguishes the two directions fire flows along a conflict path.
type PathKind int

const (
	PathAggression    PathKind = iota // aggressor → defender
	PathCounterAttack                 // ally → aggressor
)

func (k PathKind) String() string {
	switch k {
	case PathAggression:
		return "aggression"
	case PathCounterAttack:
		return "counter_attack"
	default:
		return "unknown"
	}
}

// ConflictPath is one active great-circle route. Paths are derived from the
// selection every frame and never stored across frames.
type ConflictPath struct {
	Kind  PathKind
	From  *Territory
	To    *Territory
	Start LatLon
	End   LatLon
}

// derivePaths builds the frame's path list: one aggression path when both
// principals are set, plus one counter-attack path per ally. Order is
// aggression first, then allies in join order.
func derivePaths(sel *Selection) []ConflictPath {
	if !sel.ConflictReady() {
		return nil
	}
	paths := make([]ConflictPath, 0, 1+len(sel.Allies))
	paths = append(paths, ConflictPath{
		Kind:  PathAggression,
		From:  sel.Aggressor,
		To:    sel.Defender,
		Start: sel.Aggressor.Centroid,
		End:   sel.Defender.Centroid,
	})
	for _, ally := range sel.Allies {
		paths = append(paths, ConflictPath{
			Kind:  PathCounterAttack,
			From:  ally,
			To:    sel.Aggressor,
			Start: ally.Centroid,
			End:   sel.Aggressor.Centroid,
		})
	}
	return paths
}

// Conflict is the bookkeeping for one engagement: identity, duration and the
// strikes each side has landed. Strikes accumulate when impact particles
// spawn at a path's end. The principals are pinned at open: changing either
// one closes the engagement, so they cannot drift while it runs.
type Conflict struct {
	ID               uuid.UUID
	StartTick        int
	Aggressor        *Territory
	Defender         *Territory
	AggressorStrikes int // impacts on the defender
	DefenderStrikes  int // counter-attack impacts on the aggressor
}

// newConflict opens an engagement between the principals at the given tick.
func newConflict(tick int, aggressor, defender *Territory) *Conflict {
	return &Conflict{
		ID:        uuid.New(),
		StartTick: tick,
		Aggressor: aggressor,
		Defender:  defender,
	}
}

// RecordStrike credits an impact along the given path kind.
func (c *Conflict) RecordStrike(kind PathKind) {
	switch kind {
	case PathAggression:
		c.AggressorStrikes++
	case PathCounterAttack:
		c.DefenderStrikes++
	}
}

// ConflictOutcome is the coarse judgement over an engagement so far.
type ConflictOutcome int

const (
	OutcomeInconclusive ConflictOutcome = iota
	OutcomeAggressorAdvantage
	OutcomeDefenderHolds
	OutcomeStalemate
)

func (o ConflictOutcome) String() string {
	switch o {
	case OutcomeAggressorAdvantage:
		return "aggressor_advantage"
	case OutcomeDefenderHolds:
		return "defender_holds"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// ConflictSummary is the report-facing snapshot of an engagement.
type ConflictSummary struct {
	ID               uuid.UUID
	Aggressor        string
	Defender         string
	Allies           []string
	AggressorStrikes int
	DefenderStrikes  int
	Ticks            int
	Outcome          ConflictOutcome
	Description      string
}

// DetermineConflictOutcome judges an engagement from its strike balance.
// Too few strikes is inconclusive; a two-to-one balance is an advantage;
// anything close with real volume is a stalemate.
func DetermineConflictOutcome(aggressorStrikes, defenderStrikes int) (ConflictOutcome, string) {
	total := aggressorStrikes + defenderStrikes
	if total < 5 {
		return OutcomeInconclusive, "inconclusive_insufficient_exchanges"
	}
	if aggressorStrikes >= defenderStrikes*2 {
		return OutcomeAggressorAdvantage, "aggressor_advantage_strike_superiority"
	}
	if defenderStrikes >= aggressorStrikes*2 {
		return OutcomeDefenderHolds, "defender_holds_counter_attack_parity"
	}
	return OutcomeStalemate, "stalemate_matched_exchanges"
}

// Summarise captures the engagement state. Principal names come from the
// conflict itself so a summary taken after a principal stood down still names
// both sides; allies are read live because they may join or leave while the
// engagement runs.
func (c *Conflict) Summarise(sel *Selection, tick int) ConflictSummary {
	sum := ConflictSummary{
		ID:               c.ID,
		AggressorStrikes: c.AggressorStrikes,
		DefenderStrikes:  c.DefenderStrikes,
		Ticks:            tick - c.StartTick,
	}
	if c.Aggressor != nil {
		sum.Aggressor = c.Aggressor.Name
	}
	if c.Defender != nil {
		sum.Defender = c.Defender.Name
	}
	for _, a := range sel.Allies {
		sum.Allies = append(sum.Allies, a.Name)
	}
	sum.Outcome, sum.Description = DetermineConflictOutcome(c.AggressorStrikes, c.DefenderStrikes)
	return sum
}
