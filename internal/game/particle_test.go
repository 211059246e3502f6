package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestParticle_LifecycleFrameCount(t *testing.T) {
	// A particle with life 1.0 and decay r must die after exactly
	// ceil(1/(r*dt)) fixed steps and be gone from the pool afterwards.
	cases := []struct {
		decay float64
		dt    float64
	}{
		{1.2, 1.0 / 60},
		{0.5, 1.0 / 60},
		{2.0, 1.0 / 30},
		{1.0, 0.1},
	}
	for _, c := range cases {
		ps := NewParticleSystem()
		rng := rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic test
		if !ps.Spawn(LatLon{Lat: 10, Lon: 20}, rng) {
			t.Fatalf("spawn into an empty pool must succeed")
		}
		ps.P[0].Decay = c.decay
		ps.P[0].VelLat = 0
		ps.P[0].VelLon = 0

		wantFrames := int(math.Ceil(1 / (c.decay * c.dt)))
		frames := 0
		for len(ps.P) > 0 {
			ps.Update(c.dt)
			frames++
			if frames > wantFrames+1 {
				break
			}
		}
		if frames != wantFrames {
			t.Errorf("decay %.2f dt %.4f: died after %d frames, want %d", c.decay, c.dt, frames, wantFrames)
		}
		if len(ps.P) != 0 {
			t.Errorf("decay %.2f dt %.4f: particle still present after death", c.decay, c.dt)
		}
	}
}

func TestParticle_DriftIntegration(t *testing.T) {
	ps := NewParticleSystem()
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic test
	ps.Spawn(LatLon{Lat: 0, Lon: 0}, rng)
	ps.P[0].VelLat = 2.0
	ps.P[0].VelLon = -3.0
	ps.P[0].Decay = 0.1 // slow, survives the window

	for i := 0; i < 60; i++ {
		ps.Update(1.0 / 60)
	}
	if !almostEqual(ps.P[0].Pos.Lat, 2.0, 1e-6) {
		t.Errorf("lat should integrate linearly: got %.4f, want 2.0", ps.P[0].Pos.Lat)
	}
	if !almostEqual(ps.P[0].Pos.Lon, -3.0, 1e-6) {
		t.Errorf("lon should integrate linearly: got %.4f, want -3.0", ps.P[0].Pos.Lon)
	}
}

func TestParticle_PoolCap(t *testing.T) {
	ps := NewParticleSystem()
	rng := rand.New(rand.NewSource(5)) // #nosec G404 -- deterministic test
	for i := 0; i < maxParticles; i++ {
		if !ps.Spawn(LatLon{}, rng) {
			t.Fatalf("spawn %d should fit under the cap", i)
		}
	}
	if ps.Spawn(LatLon{}, rng) {
		t.Errorf("spawn past the cap must be dropped")
	}
	if len(ps.P) != maxParticles {
		t.Errorf("pool should hold exactly %d, got %d", maxParticles, len(ps.P))
	}
}

func TestParticle_RingGrowsAndFades(t *testing.T) {
	p := Particle{Life: 1.0, MaxLife: 1.0, Size: 1.0}
	r0 := p.RingRadius()
	a0 := p.Alpha()
	p.Life = 0.25
	if p.RingRadius() <= r0 {
		t.Errorf("ring radius must grow as life drains: %.2f → %.2f", r0, p.RingRadius())
	}
	if p.Alpha() >= a0 {
		t.Errorf("alpha must fall with life: %.2f → %.2f", a0, p.Alpha())
	}
	if !almostEqual(p.Alpha(), 0.25, 1e-9) {
		t.Errorf("alpha should equal the remaining life fraction, got %.4f", p.Alpha())
	}
}
