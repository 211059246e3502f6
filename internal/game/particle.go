package game

import "math/rand"

const (
	// maxParticles caps the burst pool; spawns beyond the cap are dropped.
	maxParticles = 256

	// particleDecayRate is the default life lost per second (life runs 1 → 0).
	particleDecayRate = 1.2

	// particleSpawnChance is the per-frame probability that an arriving
	// marker throws an impact particle.
	particleSpawnChance = 0.08

	// particleMaxRadius is the ring radius (px) reached as life hits zero.
	particleMaxRadius = 22.0

	// particleDriftMax is the largest random drift speed in degrees/second.
	particleDriftMax = 1.5
)

// Particle is one expanding impact ring anchored to the globe surface.
type Particle struct {
	Pos     LatLon  // surface anchor; drifts slightly
	VelLat  float64 // deg/s
	VelLon  float64 // deg/s
	Life    float64 // remaining fraction, 1 → 0
	MaxLife float64
	Decay   float64 // life lost per second
	Size    float64 // base ring radius scale
}

// ParticleSystem owns the transient impact bursts. Dead particles are
// swap-removed, so iteration order is not stable.
type ParticleSystem struct {
	P []Particle
}

// NewParticleSystem allocates the pool at capacity.
func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{P: make([]Particle, 0, maxParticles)}
}

// Spawn adds a burst at the impact point. Returns false when the pool is full.
func (ps *ParticleSystem) Spawn(at LatLon, rng *rand.Rand) bool {
	if len(ps.P) >= maxParticles {
		return false
	}
	ps.P = append(ps.P, Particle{
		Pos:     at,
		VelLat:  (rng.Float64()*2 - 1) * particleDriftMax,
		VelLon:  (rng.Float64()*2 - 1) * particleDriftMax,
		Life:    1.0,
		MaxLife: 1.0,
		Decay:   particleDecayRate,
		Size:    0.7 + rng.Float64()*0.6,
	})
	return true
}

// Update integrates drift and decays life, removing dead particles.
// The epsilon keeps the death frame deterministic when life divides exactly
// into steps; accumulated float error must not defer removal by a frame.
func (ps *ParticleSystem) Update(dt float64) {
	const eps = 1e-9
	for i := 0; i < len(ps.P); i++ {
		p := &ps.P[i]
		p.Pos.Lat += p.VelLat * dt
		p.Pos.Lon = normaliseLon(p.Pos.Lon + p.VelLon*dt)
		p.Life -= p.Decay * dt
		if p.Life <= eps {
			ps.P[i] = ps.P[len(ps.P)-1]
			ps.P = ps.P[:len(ps.P)-1]
			i--
		}
	}
}

// RingRadius is the current ring radius: it grows as life drains away.
func (p *Particle) RingRadius() float64 {
	spent := 1 - p.Life/p.MaxLife
	return 3 + spent*particleMaxRadius*p.Size
}

// Alpha is the current opacity fraction, proportional to remaining life.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}
