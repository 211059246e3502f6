package game

import (
	"fmt"
	"math/rand"
)

// simDt is the fixed per-tick timestep the harness advances by (60 Hz).
const simDt = 1.0 / 60.0

// GlobeSim is a headless simulation harness used exclusively by tests and
// the report tool. It mirrors Game.Update but has no Ebiten dependency and
// supports deterministic seeding and structured logging.
type GlobeSim struct {
	Width  int
	Height int

	World     *WorldMap
	Rot       *Rotation
	Sel       Selection
	Markers   *MarkerPool
	Particles *ParticleSystem
	Conflict  *Conflict
	Paths     []ConflictPath
	Mode      Role
	SimLog    *SimLog

	// LastSummary survives conflict teardown, as in the interactive game.
	LastSummary *ConflictSummary

	rng  *rand.Rand
	tick int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra     simOptionKind = iota // screen size, seed, verbose, world — applied first
	simOptDesignate                      // role designations — applied once the world exists
)

// SimOption is a builder function applied to a GlobeSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*GlobeSim)
}

// WithScreenSize sets the window dimensions the projection is derived from.
func WithScreenSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(gs *GlobeSim) {
		gs.Width = w
		gs.Height = h
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(gs *GlobeSim) {
		gs.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(gs *GlobeSim) {
		gs.SimLog = NewSimLog(v)
	}}
}

// WithWorld substitutes a world map for the embedded default.
func WithWorld(wm *WorldMap) SimOption {
	return SimOption{simOptInfra, func(gs *GlobeSim) {
		gs.World = wm
	}}
}

// WithSpinParams overrides the rotation feel.
func WithSpinParams(sp SpinParams) SimOption {
	return SimOption{simOptInfra, func(gs *GlobeSim) {
		gs.Rot = NewRotation(sp)
	}}
}

// WithDesignation assigns a role to a territory by ID before the run starts.
func WithDesignation(role Role, id string) SimOption {
	return SimOption{simOptDesignate, func(gs *GlobeSim) {
		t, ok := gs.World.ByID(id)
		if !ok {
			gs.SimLog.Add(gs.tick, id, role.String(), "select", "unknown_id", "no such territory", 0)
			return
		}
		gs.Designate(role, t)
	}}
}

// NewGlobeSim constructs a GlobeSim from the given options in two ordered
// passes: infrastructure first (size, seed, world), then designations.
func NewGlobeSim(opts ...SimOption) *GlobeSim {
	gs := &GlobeSim{
		Width:     1280,
		Height:    720,
		Rot:       NewRotation(defaultSpinParams()),
		Particles: NewParticleSystem(),
		Mode:      RoleAggressor,
		SimLog:    NewSimLog(false),
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(gs)
		}
	}
	if gs.World == nil {
		wm, err := LoadEmbeddedWorld()
		if err != nil {
			gs.SimLog.Add(0, "--", "--", "geometry", "error", err.Error(), 0)
		} else {
			gs.World = wm
		}
	}
	if gs.World != nil {
		gs.SimLog.Add(0, "--", "--", "geometry", "loaded",
			fmt.Sprintf("%d territories", len(gs.World.Territories)), float64(len(gs.World.Territories)))
	}
	gs.Markers = NewMarkerPool(gs.rng)
	for _, o := range opts {
		if o.kind == simOptDesignate {
			o.fn(gs)
		}
	}
	return gs
}

// projection mirrors Game.projection: the globe fills the square left
// portion of the window.
func (gs *GlobeSim) projection() Projection {
	half := float64(gs.Height) / 2
	return Projection{
		CX:   half,
		CY:   half,
		R:    half * globeRadiusRatio,
		Spin: gs.Rot.Spin,
		Tilt: gs.Rot.Tilt,
	}
}

// PointerDown starts a drag gesture.
func (gs *GlobeSim) PointerDown(x, y float64) {
	prev := gs.Rot.State()
	gs.Rot.PointerDown(x, y)
	gs.SimLog.Add(gs.tick, "--", "--", "input", "pointer_down", fmt.Sprintf("(%.0f,%.0f)", x, y), 0)
	gs.logSpinChange(prev)
}

// PointerMove continues a drag gesture.
func (gs *GlobeSim) PointerMove(x, y float64) {
	gs.Rot.PointerMove(x, y)
}

// PointerUp ends the gesture; a release inside the click threshold resolves
// the point against the globe and applies the current mode.
func (gs *GlobeSim) PointerUp(x, y float64) {
	prev := gs.Rot.State()
	click := gs.Rot.PointerUp(x, y)
	kind := "drag"
	if click {
		kind = "click"
	}
	gs.SimLog.Add(gs.tick, "--", "--", "input", "pointer_up", kind, 0)
	gs.logSpinChange(prev)
	if click {
		gs.resolveClick(x, y)
	}
}

// Click is a convenience press-and-release at one point.
func (gs *GlobeSim) Click(x, y float64) {
	gs.PointerDown(x, y)
	gs.PointerUp(x, y)
}

// resolveClick mirrors Game.handleGlobeClick with SimLog narration.
func (gs *GlobeSim) resolveClick(x, y float64) {
	if gs.World == nil {
		return
	}
	ll, ok := gs.projection().Unproject(x, y)
	if !ok {
		gs.SimLog.Add(gs.tick, "--", "--", "select", "miss", "off-globe", 0)
		return
	}
	t := gs.World.HitTest(ll)
	if t == nil {
		gs.SimLog.Add(gs.tick, "--", "--", "select", "miss",
			fmt.Sprintf("ocean at (%.1f,%.1f)", ll.Lat, ll.Lon), 0)
		return
	}
	gs.Designate(gs.Mode, t)
}

// Designate applies a toggle in the current mode and keeps the conflict in
// sync, logging every outcome.
func (gs *GlobeSim) Designate(role Role, t *Territory) {
	err := gs.Sel.Toggle(role, t)
	switch {
	case err == nil && gs.Sel.RoleOf(t) == RoleNeutral:
		gs.SimLog.Add(gs.tick, t.ID, role.String(), "select", "cleared", t.Name, 0)
	case err == nil:
		gs.SimLog.Add(gs.tick, t.ID, role.String(), "select", "designated", t.Name, 0)
	default:
		gs.SimLog.Add(gs.tick, t.ID, gs.Sel.RoleOf(t).String(), "select", "rejected", err.Error(), 0)
		return
	}
	gs.syncConflict()
}

// syncConflict opens or closes the engagement as designations change.
func (gs *GlobeSim) syncConflict() {
	switch {
	case gs.Sel.ConflictReady() && gs.Conflict == nil:
		gs.Conflict = newConflict(gs.tick, gs.Sel.Aggressor, gs.Sel.Defender)
		gs.SimLog.Add(gs.tick, gs.Sel.Aggressor.ID, "aggressor", "conflict", "opened",
			fmt.Sprintf("%s -> %s", gs.Sel.Aggressor.ID, gs.Sel.Defender.ID), 0)
	case !gs.Sel.ConflictReady() && gs.Conflict != nil:
		gs.closeConflict()
	}
}

// closeConflict captures the summary while the selection still lists the
// allies, then tears the engagement down.
func (gs *GlobeSim) closeConflict() {
	sum := gs.Conflict.Summarise(&gs.Sel, gs.tick)
	gs.LastSummary = &sum
	gs.SimLog.Add(gs.tick, "--", "--", "conflict", "closed", sum.Description,
		float64(sum.AggressorStrikes+sum.DefenderStrikes))
	gs.Conflict = nil
}

// Reset stands every designation down, closing any engagement.
func (gs *GlobeSim) Reset() {
	if gs.Conflict != nil {
		gs.closeConflict()
	}
	gs.Sel.Clear()
	gs.SimLog.Add(gs.tick, "--", "--", "select", "reset", "all designations cleared", 0)
}

// logSpinChange records a rotation state transition if one happened.
func (gs *GlobeSim) logSpinChange(prev spinState) {
	if cur := gs.Rot.State(); cur != prev {
		gs.SimLog.Add(gs.tick, "--", "--", "spin", "state_change",
			fmt.Sprintf("%s -> %s", prev, cur), 0)
	}
}

// RunTicks advances the simulation n fixed-step ticks.
func (gs *GlobeSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		gs.tick++
		gs.runOneTick()
	}
}

// RunUntil advances up to maxTicks, stopping early when predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (gs *GlobeSim) RunUntil(predicate func(*GlobeSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		gs.tick++
		gs.runOneTick()
		if predicate(gs) {
			return gs.tick
		}
	}
	return -1
}

// runOneTick mirrors Game.simTick for the headless harness.
func (gs *GlobeSim) runOneTick() {
	prevState := gs.Rot.State()
	gs.Rot.Step(simDt)
	gs.logSpinChange(prevState)
	gs.SimLog.AddVerbose(gs.tick, "--", "--", "spin", "angles",
		fmt.Sprintf("spin=%.2f tilt=%.2f", gs.Rot.Spin, gs.Rot.Tilt), gs.Rot.Spin)

	prevPaths := len(gs.Paths)
	gs.Paths = derivePaths(&gs.Sel)
	if len(gs.Paths) != prevPaths {
		gs.SimLog.Add(gs.tick, "--", "--", "path", "derived",
			fmt.Sprintf("%d active", len(gs.Paths)), float64(len(gs.Paths)))
	}

	// Markers: advance, then detect wrap-around launches.
	var before [markerPoolSize]float64
	for i := range gs.Markers.Markers {
		before[i] = gs.Markers.Markers[i].Progress
	}
	gs.Markers.Advance(simDt, len(gs.Paths))
	for i := range gs.Markers.Markers {
		m := &gs.Markers.Markers[i]
		if m.PathIdx < 0 || m.PathIdx >= len(gs.Paths) {
			continue
		}
		if m.Progress < before[i] {
			p := gs.Paths[m.PathIdx]
			gs.SimLog.Add(gs.tick, p.From.ID, "--", "marker", "launch", "toward "+p.To.ID, 0)
		}
	}

	// Impacts: arriving markers throw particles and score strikes.
	for i := range gs.Markers.Markers {
		m := &gs.Markers.Markers[i]
		if m.PathIdx < 0 || m.PathIdx >= len(gs.Paths) || !m.Arriving() {
			continue
		}
		if gs.rng.Float64() >= particleSpawnChance {
			continue
		}
		p := gs.Paths[m.PathIdx]
		at := LatLon{
			Lat: p.End.Lat + (gs.rng.Float64()*2-1)*impactScatterDeg,
			Lon: normaliseLon(p.End.Lon + (gs.rng.Float64()*2-1)*impactScatterDeg),
		}
		if gs.Particles.Spawn(at, gs.rng) {
			if gs.Conflict != nil {
				gs.Conflict.RecordStrike(p.Kind)
			}
			gs.SimLog.Add(gs.tick, p.To.ID, "--", "particle", "spawn", p.Kind.String(), 0)
		}
	}

	gs.Particles.Update(simDt)
	gs.SimLog.AddVerbose(gs.tick, "--", "--", "particle", "count",
		fmt.Sprintf("%d live", len(gs.Particles.P)), float64(len(gs.Particles.P)))
}

// CurrentTick returns the current simulation tick.
func (gs *GlobeSim) CurrentTick() int {
	return gs.tick
}

// GlobeSnapshot captures a lightweight state summary.
type GlobeSnapshot struct {
	Tick             int
	Spin             float64
	Tilt             float64
	SpinState        string
	AggressorID      string
	DefenderID       string
	AllyIDs          []string
	PathCount        int
	VisibleMarkers   int
	LiveParticles    int
	AggressorStrikes int
	DefenderStrikes  int
}

// Snapshot returns the current simulation state.
func (gs *GlobeSim) Snapshot() GlobeSnapshot {
	snap := GlobeSnapshot{
		Tick:          gs.tick,
		Spin:          gs.Rot.Spin,
		Tilt:          gs.Rot.Tilt,
		SpinState:     gs.Rot.State().String(),
		PathCount:     len(gs.Paths),
		LiveParticles: len(gs.Particles.P),
	}
	if gs.Sel.Aggressor != nil {
		snap.AggressorID = gs.Sel.Aggressor.ID
	}
	if gs.Sel.Defender != nil {
		snap.DefenderID = gs.Sel.Defender.ID
	}
	for _, a := range gs.Sel.Allies {
		snap.AllyIDs = append(snap.AllyIDs, a.ID)
	}
	for i := range gs.Markers.Markers {
		if gs.Markers.Markers[i].Visible() {
			snap.VisibleMarkers++
		}
	}
	if gs.Conflict != nil {
		snap.AggressorStrikes = gs.Conflict.AggressorStrikes
		snap.DefenderStrikes = gs.Conflict.DefenderStrikes
	}
	return snap
}
