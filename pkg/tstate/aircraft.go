// Package tstate holds the aircraft state representation shared across the
// detector, criteria, kinematics, and band layers: position, velocity, an
// optional sensor-uncertainty block, and the book-keeping needed to tell a
// valid aircraft from the INVALID sentinel described in spec.md §9.
package tstate

import (
	"math"
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/uncertainty"
)

// Aircraft is a single fused kinematic state, geodetic or Cartesian, plus
// the projected Euclidean representation the core computes against.
// Mirroring the teacher's split between observed and "actual" fields
// (UASThreat in entities.go), Aircraft carries exactly the fields
// spec.md's Data Model names: no sensor pipeline, no derived detection
// history.
type Aircraft struct {
	ID string

	// Exactly one of the two position encodings is populated, chosen at
	// construction time; IsGeodetic reports which.
	IsGeodetic bool
	Geodetic   geometry.LatLonAlt
	Euclidean  geometry.Vector3 // meters, used directly when !IsGeodetic

	// Velocity is carried ground-relative, the frame the detector/bands
	// operate on; there is no air-relative field. See Core.Wind and
	// Core.GroundToAirVelocity for the air-relative conversion.
	TrackRad    float64 // ground track, radians, for geodetic aircraft
	GroundSpeed float64 // m/s
	VerticalRS  float64 // m/s, positive up

	// Velocity in east/north/up m/s, valid for both position encodings.
	// Populated by tstate.NewFromGroundVelocity or directly by callers
	// working in Cartesian coordinates.
	GroundVelocity geometry.Vector3

	// Position projected into the ownship's local tangent plane for the
	// current refresh; recomputed every refresh, never persisted across
	// them (spec.md §9 Design Note: the core owns the projection).
	Projected geometry.Vector3

	AlerterIndex int // 1-based; 0 means "use ownship-centric default"

	Uncertainty *uncertainty.SUM // nil when no SUM data was supplied

	Time time.Time

	valid bool
}

// Invalid is the distinguished zero-ish aircraft for which IsValid reports
// false, replacing the source's static INVALID singleton (spec.md §9
// Design Note).
var Invalid = Aircraft{ID: "", valid: false}

// IsValid reports whether a is a real, usable aircraft state rather than
// the INVALID sentinel.
func (a Aircraft) IsValid() bool { return a.valid }

// NewGeodetic constructs a valid geodetic aircraft state.
func NewGeodetic(id string, pos geometry.LatLonAlt, trackRad, groundSpeed, verticalSpeed float64, t time.Time) Aircraft {
	return Aircraft{
		ID:          id,
		IsGeodetic:  true,
		Geodetic:    pos,
		TrackRad:    trackRad,
		GroundSpeed: groundSpeed,
		VerticalRS:  verticalSpeed,
		Time:        t,
		valid:       true,
	}
}

// NewEuclidean constructs a valid Cartesian aircraft state.
func NewEuclidean(id string, pos geometry.Vector3, vel geometry.Vector3, t time.Time) Aircraft {
	return Aircraft{
		ID:             id,
		IsGeodetic:     false,
		Euclidean:      pos,
		GroundVelocity: vel,
		TrackRad:       vel.Vect2().Track(),
		GroundSpeed:    vel.Vect2().Norm(),
		VerticalRS:     vel.Z,
		Time:           t,
		valid:          true,
	}
}

// WithUncertainty returns a copy of a carrying the given SUM block.
func (a Aircraft) WithUncertainty(u uncertainty.SUM) Aircraft {
	a.Uncertainty = &u
	return a
}

// WithAlerterIndex returns a copy of a with its alerter index set.
func (a Aircraft) WithAlerterIndex(idx int) Aircraft {
	a.AlerterIndex = idx
	return a
}

// GroundVelocityVector returns a's ground velocity as an east/north/up
// vector, deriving it from track/groundspeed/vs for geodetic aircraft.
func (a Aircraft) GroundVelocityVector() geometry.Vector3 {
	if !a.IsGeodetic {
		return a.GroundVelocity
	}
	return geometry.Vector3{
		X: a.GroundSpeed * math.Sin(a.TrackRad),
		Y: a.GroundSpeed * math.Cos(a.TrackRad),
		Z: a.VerticalRS,
	}
}
