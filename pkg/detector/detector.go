// Package detector implements the conflict-detector abstraction (C2):
// the capability set every concrete separation-volume variant satisfies,
// plus a small registry so parameter files can name a detector by id.
package detector

import (
	"fmt"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

// State is the minimal kinematic sample a Detector needs: a position and
// velocity in the ownship's Euclidean frame, at some instant.
type State struct {
	Pos geometry.Vector3
	Vel geometry.Vector3
}

// Interval is a time-in/time-out pair. Conflict implies 0 <= TimeIn <=
// TimeOut <= the T bound the caller supplied.
type Interval struct {
	Conflict        bool
	TimeIn, TimeOut float64
}

// Detector is the polymorphic separation-volume contract every concrete
// variant (cylinder, well-clear) satisfies (spec.md §4.2).
type Detector interface {
	// ID is the registered name this detector was constructed under.
	ID() string

	// Violation reports whether own and intruder are in violation at the
	// instant described by the two states (there is no separate time
	// argument; the states already describe the sampled instant).
	Violation(own, intruder State) bool

	// ConflictDetection returns the conflict interval within [B, T] for
	// own and intruder holding their current (own.Vel, intruder.Vel)
	// constant, i.e. linear relative motion from own.Pos/intruder.Pos.
	ConflictDetection(own, intruder State, b, t float64) Interval

	// HorizontalContours returns CCW polygons in the horizontal plane
	// approximating intruder-relative positions causing conflict within
	// t, restricted to relative bearings within thetaRad of own's track.
	HorizontalContours(own, intruder State, thetaRad, t float64) [][]geometry.Vector2

	// HorizontalHazardZone returns the violation region expanded by the
	// given time margin.
	HorizontalHazardZone(own, intruder State, marginSeconds float64) []geometry.Vector2

	// WithRadii returns a copy of the detector using the given horizontal
	// (meters) and vertical (meters) separation radii, used by the
	// recovery search's shrinking-volume iteration (spec.md §4.6).
	WithRadii(horizontal, vertical float64) Detector

	// NominalRadii returns the detector's configured horizontal/vertical
	// separation radii (meters), the baseline a caller inflates by a
	// sensor-uncertainty margin before calling WithRadii.
	NominalRadii() (horizontal, vertical float64)
}

var registry = map[string]func() Detector{}

// Register installs a zero-argument constructor under id, so a
// parameter file's alert_<k>_detector key can be resolved to a concrete
// Detector. Re-registering an id overwrites the prior constructor,
// matching how a host application would swap in a custom variant.
func Register(id string, ctor func() Detector) {
	registry[id] = ctor
}

// New constructs a fresh Detector for a registered id.
func New(id string) (Detector, error) {
	ctor, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("detector: unregistered id %q", id)
	}
	return ctor(), nil
}

func init() {
	Register("cylinder", func() Detector { return NewCylinder(DefaultCylinderRadii()) })
	Register("wcv", func() Detector { return NewWCV(DefaultWCVThresholds()) })
}
