package detector

import (
	"math"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

// CylinderRadii is the pair of separation radii a Cylinder detector
// enforces: a horizontal disk of radius Horizontal and a vertical slab
// of half-height Vertical.
type CylinderRadii struct {
	Horizontal float64 // m
	Vertical   float64 // m
}

// DefaultCylinderRadii returns the nominal WC_SC_228 "well clear" volume
// (spec.md §8's corrective envelope): 0.66 NM horizontally, 450 ft
// vertically.
func DefaultCylinderRadii() CylinderRadii {
	return CylinderRadii{Horizontal: 0.66 * 1852.0, Vertical: 450 * 0.3048}
}

// Cylinder is the simplest Detector variant: violation is "inside a
// right circular cylinder centered on the intruder" (spec.md §4.2's
// "concrete variants ... cylindrical").
type Cylinder struct {
	id     string
	radii  CylinderRadii
}

// NewCylinder constructs a Cylinder detector registered as "cylinder".
func NewCylinder(radii CylinderRadii) *Cylinder {
	return &Cylinder{id: "cylinder", radii: radii}
}

func (c *Cylinder) ID() string { return c.id }

func relative(own, intruder State) (pos geometry.Vector3, vel geometry.Vector3) {
	pos = intruder.Pos.Sub(own.Pos)
	vel = intruder.Vel.Sub(own.Vel)
	return
}

func (c *Cylinder) Violation(own, intruder State) bool {
	relPos, _ := relative(own, intruder)
	return relPos.Vect2().Norm() < c.radii.Horizontal && math.Abs(relPos.Z) < c.radii.Vertical
}

// horizontalDiskInterval returns the time interval during which a point
// moving along relPos+relVel*t lies within distance radius of the
// origin, solving the quadratic ‖relPos+relVel t‖² = radius² for its
// real roots.
func horizontalDiskInterval(relPos, relVel geometry.Vector2, radius float64) (tIn, tOut float64, ok bool) {
	a := relVel.SqNorm()
	b := 2 * relPos.Dot(relVel)
	cc := relPos.SqNorm() - radius*radius
	if a < 1e-12 {
		if cc <= 0 {
			return 0, math.Inf(1), true
		}
		return 0, 0, false
	}
	disc := b*b - 4*a*cc
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-b - sq) / (2 * a)
	r2 := (-b + sq) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, true
}

// verticalSlabInterval returns the time interval during which z0+vz*t
// lies within (-halfHeight, halfHeight).
func verticalSlabInterval(z0, vz, halfHeight float64) (tIn, tOut float64, ok bool) {
	if math.Abs(vz) < 1e-9 {
		if math.Abs(z0) < halfHeight {
			return math.Inf(-1), math.Inf(1), true
		}
		return 0, 0, false
	}
	t1 := (-halfHeight - z0) / vz
	t2 := (halfHeight - z0) / vz
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2, true
}

func intersectIntervals(aIn, aOut, bIn, bOut float64) (lo, hi float64, ok bool) {
	lo = math.Max(aIn, bIn)
	hi = math.Min(aOut, bOut)
	return lo, hi, lo <= hi
}

func (c *Cylinder) ConflictDetection(own, intruder State, b, t float64) Interval {
	relPos, relVel := relative(own, intruder)
	hIn, hOut, hOK := horizontalDiskInterval(relPos.Vect2(), relVel.Vect2(), c.radii.Horizontal)
	if !hOK {
		return Interval{}
	}
	vIn, vOut, vOK := verticalSlabInterval(relPos.Z, relVel.Z, c.radii.Vertical)
	if !vOK {
		return Interval{}
	}
	lo, hi, ok := intersectIntervals(hIn, hOut, vIn, vOut)
	if !ok {
		return Interval{}
	}
	lo = math.Max(lo, b)
	hi = math.Min(hi, t)
	if lo > hi {
		return Interval{}
	}
	return Interval{Conflict: true, TimeIn: lo, TimeOut: hi}
}

// HorizontalContours approximates the conflict locus as a circle of the
// detector's horizontal radius around the intruder's relative position,
// clipped to bearings within thetaRad of the ownship's current track.
func (c *Cylinder) HorizontalContours(own, intruder State, thetaRad, _ float64) [][]geometry.Vector2 {
	center := intruder.Pos.Sub(own.Pos).Vect2()
	track := own.Vel.Vect2().Track()
	const nPts = 36
	var ring []geometry.Vector2
	for i := 0; i <= nPts; i++ {
		frac := 1 - float64(i)/float64(nPts)*2 // decreasing bearing: counterclockwise
		bearing := track + frac*thetaRad
		dx := c.radii.Horizontal * math.Sin(bearing)
		dy := c.radii.Horizontal * math.Cos(bearing)
		ring = append(ring, geometry.Vector2{X: center.X + dx, Y: center.Y + dy})
	}
	return [][]geometry.Vector2{ring}
}

// HorizontalHazardZone returns the cylinder's horizontal disk, expanded
// by the relative closing speed times marginSeconds.
func (c *Cylinder) HorizontalHazardZone(own, intruder State, marginSeconds float64) []geometry.Vector2 {
	relPos, relVel := relative(own, intruder)
	expanded := c.radii.Horizontal + relVel.Vect2().Norm()*marginSeconds
	center := relPos.Vect2()
	const nPts = 36
	ring := make([]geometry.Vector2, 0, nPts+1)
	for i := 0; i <= nPts; i++ {
		a := 2 * math.Pi * float64(i) / float64(nPts)
		ring = append(ring, geometry.Vector2{X: center.X + expanded*math.Sin(a), Y: center.Y + expanded*math.Cos(a)})
	}
	return ring
}

func (c *Cylinder) WithRadii(horizontal, vertical float64) Detector {
	return &Cylinder{id: c.id, radii: CylinderRadii{Horizontal: horizontal, Vertical: vertical}}
}

func (c *Cylinder) NominalRadii() (horizontal, vertical float64) {
	return c.radii.Horizontal, c.radii.Vertical
}
