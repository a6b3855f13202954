// Package criteria implements the implicit-coordination criteria (C3):
// the horizontal/vertical epsilon sign functions and the two repulsive
// predicates a candidate maneuver must preserve at every kinematic step.
package criteria

import (
	"strings"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

// Sign is an implicit-coordination direction: -1 (ownship turns right /
// descends in the relative frame) or +1 (left / climbs).
type Sign int

const (
	Right Sign = -1
	Left  Sign = 1
)

// EpsilonH returns the horizontal coordination sign for the relative
// position/velocity pair (spec.md §4.3): the sign of the determinant of
// relative position and relative velocity. When the horizontal
// components are (numerically) collinear or zero, ownID/intruderID
// break the tie lexicographically so two aircraft evaluating the same
// encounter from opposite sides agree on a direction.
func EpsilonH(relPos, relVel geometry.Vector2, ownID, intruderID string) Sign {
	det := relPos.Det(relVel)
	const eps = 1e-9
	if det > eps {
		return Left
	}
	if det < -eps {
		return Right
	}
	if strings.Compare(ownID, intruderID) <= 0 {
		return Left
	}
	return Right
}

// EpsilonV returns the vertical coordination sign (spec.md §4.3):
// derived from the relative vertical velocity component, with an
// identifier-based tie-break when that component is (numerically)
// zero.
func EpsilonV(relVelZ float64, ownID, intruderID string) Sign {
	const eps = 1e-9
	if relVelZ > eps {
		return Left
	}
	if relVelZ < -eps {
		return Right
	}
	if strings.Compare(ownID, intruderID) <= 0 {
		return Left
	}
	return Right
}

// HorizontalNewRepulsive reports whether the candidate new own
// horizontal velocity v' keeps the coordinated-direction miss distance
// from decreasing, relative to intruder velocity vi (spec.md §4.3).
// relPos is the intruder-relative position (intruder - own) at the
// evaluation instant.
func HorizontalNewRepulsive(relPos geometry.Vector2, vNew, vi geometry.Vector2, eh Sign) bool {
	relVelNew := vi.Sub(vNew)
	return float64(eh)*relPos.Det(relVelNew) >= -1e-9
}

// VerticalNewRepulsive is the vertical analogue of
// HorizontalNewRepulsive: it reports whether the candidate new own
// vertical speed keeps vertical separation from decreasing in the
// coordinated sense.
func VerticalNewRepulsive(relPosZ float64, vNewZ, viZ float64, ev Sign) bool {
	relVelZNew := viZ - vNewZ
	return float64(ev)*relPosZ*relVelZNew >= -1e-9
}
