// Package geometry provides the 2-D/3-D vector algebra, projections, and
// angle arithmetic shared by the detector, criteria, kinematics, and band
// search layers.
package geometry

import "math"

// Vector2 is a horizontal-plane vector (east, north) in meters or m/s.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3-D vector (east, north, up) in meters or m/s.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scal(k float64) Vector2 { return Vector2{v.X * k, v.Y * k} }
func (v Vector2) Dot(o Vector2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Det(o Vector2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vector2) SqNorm() float64       { return v.Dot(v) }
func (v Vector2) Norm() float64         { return SafeSqrt(v.SqNorm()) }

// Hat returns the unit vector in the direction of v, or the zero vector
// when v itself is (numerically) zero.
func (v Vector2) Hat() Vector2 {
	n := v.Norm()
	if n < 1e-9 {
		return Vector2{}
	}
	return v.Scal(1 / n)
}

// Track returns the compass bearing (radians clockwise from north) of v.
func (v Vector2) Track() float64 {
	return NormalizeAngle(math.Atan2(v.X, v.Y))
}

func (v Vector3) Add(o Vector3) Vector3  { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3  { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scal(k float64) Vector3 { return Vector3{v.X * k, v.Y * k, v.Z * k} }
func (v Vector3) Dot(o Vector3) float64  { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) SqNorm() float64        { return v.Dot(v) }
func (v Vector3) Norm() float64          { return SafeSqrt(v.SqNorm()) }
func (v Vector3) Vect2() Vector2         { return Vector2{v.X, v.Y} }

// SafeSqrt returns sqrt(x) for x > 0 and 0 otherwise, avoiding NaN
// propagation from small negative values produced by floating-point
// cancellation.
func SafeSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// SafeAsin clamps x to [-1, 1] before calling math.Asin, guarding against
// values that stray outside the domain by a hair due to rounding.
func SafeAsin(x float64) float64 {
	if x <= -1 {
		return -math.Pi / 2
	}
	if x >= 1 {
		return math.Pi / 2
	}
	return math.Asin(x)
}

// Mod2Pi reduces a radian angle to [0, 2π).
func Mod2Pi(a float64) float64 {
	m := math.Mod(a, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}

// NormalizeAngle is an alias of Mod2Pi kept for readability at call sites
// dealing with compass tracks rather than raw angles.
func NormalizeAngle(a float64) float64 { return Mod2Pi(a) }

// AngleDiff returns the signed shortest angular distance a-b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := Mod2Pi(a - b)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// TCA2D returns the time of closest approach of two points moving with
// constant relative velocity, clamped to t >= 0 ("now or in the future").
// When the relative velocity is (numerically) stationary, the pair is
// already at its closest approach.
func TCA2D(relPos, relVel Vector2) float64 {
	denom := relVel.SqNorm()
	if denom < 1e-9 {
		return 0
	}
	t := -relPos.Dot(relVel) / denom
	if t < 0 {
		return 0
	}
	return t
}

// DistanceAt returns the separation between two points after both have
// moved for t seconds at their (constant) velocities.
func DistanceAt(relPos, relVel Vector2, t float64) float64 {
	return relPos.Add(relVel.Scal(t)).Norm()
}

// PointInPolygon reports whether p lies inside the closed, counter-clockwise
// polygon poly (ray-casting, even-odd rule). A polygon of fewer than 3
// vertices never contains any point.
func PointInPolygon(p Vector2, poly []Vector2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PolygonIsCCW reports whether poly is wound counter-clockwise, using the
// shoelace formula's sign.
func PolygonIsCCW(poly []Vector2) bool {
	area := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return area > 0
}
