package game

import "math"

// spinState is the rotation state machine's current mode.
type spinState int

const (
	spinAuto spinState = iota
	spinDragging
	spinInertia
)

func (s spinState) String() string {
	switch s {
	case spinAuto:
		return "auto"
	case spinDragging:
		return "dragging"
	case spinInertia:
		return "inertia"
	default:
		return "unknown"
	}
}

const (
	// tiltMin/tiltMax bound the latitude tilt in every state.
	tiltMin = -45.0
	tiltMax = 45.0

	// clickDragThreshold is the pointer down→up pixel distance below which
	// (strictly) a gesture counts as a click rather than a drag.
	clickDragThreshold = 15.0

	// inertiaStopSpeed is the velocity (deg/s) under which inertial decay
	// hands control back to the auto spin.
	inertiaStopSpeed = 2.0

	// maxFrameDt caps a single frame's elapsed time so a backgrounded
	// window does not produce a huge integration step on resume.
	maxFrameDt = 0.1
)

// SpinParams are the tunable feel parameters of the rotation physics.
type SpinParams struct {
	AutoRate    float64 // idle spin rate, deg/s
	Blend       float64 // per-frame blend of velocity back toward AutoRate
	Friction    float64 // per-frame velocity retention during inertia, at 60fps
	Sensitivity float64 // degrees of rotation per pixel of drag
}

// defaultSpinParams returns the shipped feel. All four are visual tuning,
// not contracts; globe.toml can override them.
func defaultSpinParams() SpinParams {
	return SpinParams{
		AutoRate:    4.0,
		Blend:       0.02,
		Friction:    0.94,
		Sensitivity: 0.28,
	}
}

// Rotation holds the globe orientation and the drag/inertia state machine.
type Rotation struct {
	Spin float64 // centre longitude, degrees, unbounded
	Tilt float64 // centre latitude, degrees, clamped

	velSpin float64 // deg/s
	velTilt float64 // deg/s

	state  spinState
	params SpinParams

	lastX, lastY float64 // previous pointer position while dragging
	downX, downY float64 // pointer-down position, for click classification

	// Latest per-event drag delta in degrees; becomes the release velocity.
	deltaSpin float64
	deltaTilt float64
}

// NewRotation starts in auto-spin at the idle rate.
func NewRotation(params SpinParams) *Rotation {
	return &Rotation{
		state:   spinAuto,
		params:  params,
		velSpin: params.AutoRate,
	}
}

// State returns the current mode of the state machine.
func (r *Rotation) State() spinState { return r.state }

// PointerDown begins a drag, cancelling any residual velocity.
func (r *Rotation) PointerDown(x, y float64) {
	r.state = spinDragging
	r.velSpin = 0
	r.velTilt = 0
	r.deltaSpin = 0
	r.deltaTilt = 0
	r.downX, r.downY = x, y
	r.lastX, r.lastY = x, y
}

// PointerMove applies a drag delta directly to the angles and records it as
// the candidate release velocity. No-op outside the dragging state.
func (r *Rotation) PointerMove(x, y float64) {
	if r.state != spinDragging {
		return
	}
	dx := x - r.lastX
	dy := y - r.lastY
	r.lastX, r.lastY = x, y

	// Dragging right slides the surface east under the pointer, so the view
	// centre moves west; dragging down tilts the view north.
	r.deltaSpin = -dx * r.params.Sensitivity
	r.deltaTilt = dy * r.params.Sensitivity
	r.Spin += r.deltaSpin
	r.Tilt = clampTilt(r.Tilt + r.deltaTilt)
}

// PointerUp ends the gesture. The return value is true when the pointer
// travelled strictly less than clickDragThreshold pixels from pointer-down,
// classifying the gesture as a click. Either way the latest drag delta is
// released as inertial velocity.
func (r *Rotation) PointerUp(x, y float64) bool {
	dx := x - r.downX
	dy := y - r.downY
	dist := math.Sqrt(dx*dx + dy*dy)

	// Latest delta was degrees-per-event at ~60 events/s.
	r.velSpin = r.deltaSpin * 60
	r.velTilt = r.deltaTilt * 60
	r.state = spinInertia
	return dist < clickDragThreshold
}

// Step advances the state machine by dt seconds (clamped to maxFrameDt) and
// clamps the tilt regardless of state.
func (r *Rotation) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDt {
		dt = maxFrameDt
	}

	switch r.state {
	case spinDragging:
		// Angles move with the pointer, not with time.

	case spinInertia:
		r.Spin += r.velSpin * dt
		r.Tilt += r.velTilt * dt
		retain := math.Pow(r.params.Friction, dt*60)
		r.velSpin *= retain
		r.velTilt *= retain
		if math.Sqrt(r.velSpin*r.velSpin+r.velTilt*r.velTilt) < inertiaStopSpeed {
			r.state = spinAuto
			r.velTilt = 0
		}

	case spinAuto:
		// Nudge the spin velocity back toward the idle rate.
		blend := 1 - math.Pow(1-r.params.Blend, dt*60)
		r.velSpin += (r.params.AutoRate - r.velSpin) * blend
		r.Spin += r.velSpin * dt
	}

	r.Tilt = clampTilt(r.Tilt)
}

// Dragging reports whether a drag is in progress.
func (r *Rotation) Dragging() bool { return r.state == spinDragging }

func clampTilt(t float64) float64 {
	if t < tiltMin {
		return tiltMin
	}
	if t > tiltMax {
		return tiltMax
	}
	return t
}
