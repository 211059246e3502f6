package game

import "math"

// LatLon is a point on the globe in degrees. Lon is positive east, Lat
// positive north.
type LatLon struct {
	Lat float64
	Lon float64
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// normaliseLon wraps a longitude into [-180, 180).
func normaliseLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// vec3 returns the unit-sphere vector for the point.
func (p LatLon) vec3() (x, y, z float64) {
	latR := degToRad(p.Lat)
	lonR := degToRad(p.Lon)
	return math.Cos(latR) * math.Cos(lonR), math.Cos(latR) * math.Sin(lonR), math.Sin(latR)
}

// fromVec3 converts a (not necessarily unit) vector back to lat/lon degrees.
func fromVec3(x, y, z float64) LatLon {
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 {
		return LatLon{}
	}
	return LatLon{
		Lat: radToDeg(math.Asin(z / n)),
		Lon: radToDeg(math.Atan2(y, x)),
	}
}

// Projection is an orthographic projection of the globe onto the screen,
// centred on (Spin, Tilt) with the sphere's centre at (CX, CY) and radius R
// in pixels.
type Projection struct {
	CX   float64
	CY   float64
	R    float64
	Spin float64 // centre longitude, degrees
	Tilt float64 // centre latitude, degrees
}

// Project maps a lat/lon point to screen coordinates. front is false when the
// point lies on the back hemisphere; the returned coordinates are still valid
// for silhouette rendering.
func (pr Projection) Project(p LatLon) (sx, sy float64, front bool) {
	latR := degToRad(p.Lat)
	dLon := degToRad(p.Lon - pr.Spin)
	tiltR := degToRad(pr.Tilt)

	sinLat, cosLat := math.Sincos(latR)
	sinTilt, cosTilt := math.Sincos(tiltR)
	cosDLon := math.Cos(dLon)

	// Angular distance from the projection centre; front hemisphere when >= 0.
	cosC := sinTilt*sinLat + cosTilt*cosLat*cosDLon

	x := cosLat * math.Sin(dLon)
	y := cosTilt*sinLat - sinTilt*cosLat*cosDLon

	sx = pr.CX + pr.R*x
	sy = pr.CY - pr.R*y
	return sx, sy, cosC >= 0
}

// Unproject maps a screen coordinate back to the lat/lon it projects from.
// ok is false when the point lies outside the visible disc.
func (pr Projection) Unproject(sx, sy float64) (LatLon, bool) {
	if pr.R <= 0 {
		return LatLon{}, false
	}
	nx := (sx - pr.CX) / pr.R
	ny := -(sy - pr.CY) / pr.R
	rho := math.Sqrt(nx*nx + ny*ny)
	if rho > 1 {
		return LatLon{}, false
	}
	tiltR := degToRad(pr.Tilt)
	if rho == 0 {
		return LatLon{Lat: pr.Tilt, Lon: normaliseLon(pr.Spin)}, true
	}

	c := math.Asin(rho)
	sinC, cosC := math.Sincos(c)
	sinTilt, cosTilt := math.Sincos(tiltR)

	lat := math.Asin(cosC*sinTilt + ny*sinC*cosTilt/rho)
	lon := degToRad(pr.Spin) + math.Atan2(nx*sinC, rho*cosC*cosTilt-ny*sinC*sinTilt)

	return LatLon{Lat: radToDeg(lat), Lon: normaliseLon(radToDeg(lon))}, true
}

// greatCirclePoint returns the point a fraction t along the shortest arc from
// a to b (t=0 → a, t=1 → b). Antipodal endpoints fall back to linear blending
// since the arc is not unique.
func greatCirclePoint(a, b LatLon, t float64) LatLon {
	ax, ay, az := a.vec3()
	bx, by, bz := b.vec3()

	dot := ax*bx + ay*by + az*bz
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	omega := math.Acos(dot)
	if omega < 1e-9 {
		return a
	}
	sinOmega := math.Sin(omega)
	if sinOmega < 1e-9 {
		// Antipodal: no unique great circle.
		return fromVec3(ax+(bx-ax)*t, ay+(by-ay)*t, az+(bz-az)*t)
	}

	fa := math.Sin((1-t)*omega) / sinOmega
	fb := math.Sin(t*omega) / sinOmega
	return fromVec3(fa*ax+fb*bx, fa*ay+fb*by, fa*az+fb*bz)
}

// greatCircleTangentAngle returns the screen-space heading (radians) of travel
// at fraction t along the arc, using a small forward difference.
func greatCircleTangentAngle(pr Projection, a, b LatLon, t float64) float64 {
	const eps = 0.01
	p0 := greatCirclePoint(a, b, t)
	p1 := greatCirclePoint(a, b, math.Min(t+eps, 1))
	x0, y0, _ := pr.Project(p0)
	x1, y1, _ := pr.Project(p1)
	return math.Atan2(y1-y0, x1-x0)
}

// polygonCentroid returns the spherical centroid of a ring: the normalised
// mean of the vertex unit vectors. Good enough for label anchors and path
// endpoints on the simplified dataset.
func polygonCentroid(ring []LatLon) LatLon {
	if len(ring) == 0 {
		return LatLon{}
	}
	var sx, sy, sz float64
	for _, p := range ring {
		x, y, z := p.vec3()
		sx += x
		sy += y
		sz += z
	}
	return fromVec3(sx, sy, sz)
}

// pointInRing reports whether p lies inside the ring using an even-odd ray
// cast in lon/lat degree space. Rings are treated as closed; the dataset is
// simplified enough that dateline-straddling rings are pre-split.
func pointInRing(p LatLon, ring []LatLon) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[j].Lat, ring[j].Lon
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
