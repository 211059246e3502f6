package game

import (
	"math"
	"math/rand"
)

const (
	// markerPoolSize is fixed: markers are reused forever, never created or
	// destroyed while the game runs.
	markerPoolSize = 12

	// markerProgressSpan: progress wraps modulo this. The 1.0–1.5 stretch is
	// an invisible gap so launches read as pulses rather than a solid stream.
	markerProgressSpan = 1.5

	// markerArrivalRatio: past this fraction of the visible leg a marker is
	// close enough to its target to throw impact particles.
	markerArrivalRatio = 0.95

	// markerSpeedMin/Max bound the randomised per-marker speed in
	// progress-units per second.
	markerSpeedMin = 0.10
	markerSpeedMax = 0.26
)

// Marker is one pooled missile. PathIdx is reassigned by round-robin every
// frame, so a marker can jump to a different path mid-flight when the ally
// list changes. That jump is a known artifact and deliberately kept.
type Marker struct {
	Progress float64 // [0, markerProgressSpan); > 1 means in the invisible gap
	Speed    float64 // progress units per second
	PathIdx  int     // index into the frame's derived path list; -1 when idle
}

// MarkerPool is the fixed set of missiles shared by all active paths.
type MarkerPool struct {
	Markers [markerPoolSize]Marker
}

// NewMarkerPool seeds each marker with a random speed and a phase offset so
// the pool does not launch in lockstep.
func NewMarkerPool(rng *rand.Rand) *MarkerPool {
	mp := &MarkerPool{}
	for i := range mp.Markers {
		mp.Markers[i] = Marker{
			Progress: rng.Float64() * markerProgressSpan,
			Speed:    markerSpeedMin + rng.Float64()*(markerSpeedMax-markerSpeedMin),
			PathIdx:  -1,
		}
	}
	return mp
}

// Advance moves every marker by dt seconds and redistributes the pool across
// pathCount paths by index modulo count. With no active paths the markers
// keep cycling unassigned so cadence survives a conflict being re-armed.
func (mp *MarkerPool) Advance(dt float64, pathCount int) {
	for i := range mp.Markers {
		m := &mp.Markers[i]
		m.Progress = math.Mod(m.Progress+m.Speed*dt, markerProgressSpan)
		if pathCount > 0 {
			m.PathIdx = i % pathCount
		} else {
			m.PathIdx = -1
		}
	}
}

// Visible reports whether the marker is on the visible leg of its cycle.
// Callers still cull against the back hemisphere before drawing.
func (m *Marker) Visible() bool {
	return m.PathIdx >= 0 && m.Progress <= 1
}

// Arriving reports whether the marker is inside the impact window near its
// target.
func (m *Marker) Arriving() bool {
	return m.PathIdx >= 0 && m.Progress > markerArrivalRatio && m.Progress <= 1
}
