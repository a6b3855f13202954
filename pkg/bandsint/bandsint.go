// Package bandsint implements the integer-band search (C5): scanning
// integer steps k in a fixed direction, calling the detector/criteria/
// kinematics layers, to produce green intervals of non-conflicting
// steps and the derived first-LOS/first-nonrepulsive/search-index
// queries spec.md §4.5 names.
package bandsint

import (
	"math"

	"github.com/airspace-systems/daidalus-go/pkg/criteria"
	"github.com/airspace-systems/daidalus-go/pkg/detector"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
)

// Integerval is a closed integer interval [Lo, Hi] of non-conflicting
// steps in one stepping direction.
type Integerval struct {
	Lo, Hi int
}

// Sampler evaluates CD_future_traj and LOS_at for a single (traffic,
// dimension, direction) search: it owns the ownship/traffic states, the
// two detectors (primary and recovery), the kinematics profile, and the
// [B, T] lookahead bound, and samples step k by projecting the
// ownship's candidate trajectory with kinematics.Project.
type Sampler struct {
	Own             kinematics.OwnState
	TrafficPos      detector.State // traffic's own constant-velocity state
	Dim             kinematics.Dimension
	Sign            kinematics.Sign
	Profile         kinematics.Profile
	Det             detector.Detector
	RecoveryDet     detector.Detector
	B, T            float64
}

func (s *Sampler) sample(k int) kinematics.Sample {
	return kinematics.Project(s.Own, s.Dim, s.Sign, k, s.Profile)
}

func (s *Sampler) ownState(k int) detector.State {
	sm := s.sample(k)
	return detector.State{Pos: sm.Pos, Vel: sm.Vel}
}

// CDFutureTraj reports whether det finds a conflict in
// [max(B, k*Δ), T] for the sampled state at step k, evaluated against
// the traffic's own linear motion from the sampled instant (spec.md
// §4.5: "from the actual sampled position, not its linear projection").
func (s *Sampler) CDFutureTraj(det detector.Detector, k int) bool {
	sm := s.sample(k)
	if !sm.Reachable {
		return true // unreachable steps are conservatively red
	}
	own := detector.State{Pos: sm.Pos, Vel: sm.Vel}
	lowerBound := math.Max(s.B, sm.Time)
	if lowerBound > s.T {
		return false
	}
	interval := det.ConflictDetection(own, s.TrafficPos, lowerBound, s.T)
	return interval.Conflict
}

// LOSAt reports whether det finds a current-time violation at the
// sampled state for step k.
func (s *Sampler) LOSAt(det detector.Detector, k int) bool {
	sm := s.sample(k)
	if !sm.Reachable {
		return true
	}
	own := detector.State{Pos: sm.Pos, Vel: sm.Vel}
	return det.Violation(own, s.TrafficPos)
}

// RepulsiveAt reports whether the horizontal or vertical repulsive
// predicate (per isHorizontal) holds for every adjacent pair (k-1, k)
// up to and including k, given the criteria epsilon sign.
func (s *Sampler) RepulsiveAt(k int, eps criteria.Sign, isHorizontal bool, ownID, intruderID string) bool {
	for j := 1; j <= k; j++ {
		prev := s.sample(j - 1)
		cur := s.sample(j)
		if !prev.Reachable || !cur.Reachable {
			return false
		}
		if isHorizontal {
			relPos := s.TrafficPos.Pos.Sub(cur.Pos).Vect2()
			if !criteria.HorizontalNewRepulsive(relPos, cur.Vel.Vect2(), s.TrafficPos.Vel.Vect2(), eps) {
				return false
			}
		} else {
			relPosZ := s.TrafficPos.Pos.Z - cur.Pos.Z
			if !criteria.VerticalNewRepulsive(relPosZ, cur.Vel.Z, s.TrafficPos.Vel.Z, eps) {
				return false
			}
		}
	}
	return true
}

// FirstLOSStep returns the least k in [0, maxN] with LOSAt true, or -1
// if none.
func (s *Sampler) FirstLOSStep(det detector.Detector, maxN int) int {
	for k := 0; k <= maxN; k++ {
		if s.LOSAt(det, k) {
			return k
		}
	}
	return -1
}

// FirstNonrepulsiveStep returns the least k in [0, maxN] at which
// repulsion (horizontal if isHorizontal, else vertical) first fails, or
// -1 if repulsion holds throughout.
func (s *Sampler) FirstNonrepulsiveStep(maxN int, eps criteria.Sign, isHorizontal bool, ownID, intruderID string) int {
	for k := 1; k <= maxN; k++ {
		if !s.RepulsiveAt(k, eps, isHorizontal, ownID, intruderID) {
			return k
		}
	}
	return -1
}

// BandsSearchIndex computes the minimum of: first_los over
// [ceil(B/Δ), min(maxN, floor(T/Δ))] using the primary detector;
// first_los over the recovery detector on [0, floor(B/Δ)]; and, if
// isRepulsiveCriterionAircraft, the first nonrepulsive step in both
// horizontal and vertical senses (spec.md §4.5).
func (s *Sampler) BandsSearchIndex(maxN int, delta float64, isRepulsiveCriterionAircraft bool, epsH, epsV criteria.Sign, ownID, intruderID string) int {
	best := maxN + 1
	lowerStart := int(math.Ceil(s.B / delta))
	upperEnd := int(math.Floor(s.T / delta))
	if upperEnd > maxN {
		upperEnd = maxN
	}
	if lowerStart <= upperEnd {
		for k := lowerStart; k <= upperEnd; k++ {
			if s.LOSAt(s.Det, k) {
				if k < best {
					best = k
				}
				break
			}
		}
	}
	recoveryEnd := int(math.Floor(s.B / delta))
	if recoveryEnd > maxN {
		recoveryEnd = maxN
	}
	if s.RecoveryDet != nil {
		if k := s.FirstLOSStep(s.RecoveryDet, recoveryEnd); k >= 0 && k < best {
			best = k
		}
	}
	if isRepulsiveCriterionAircraft {
		if k := s.FirstNonrepulsiveStep(maxN, epsH, true, ownID, intruderID); k >= 0 && k < best {
			best = k
		}
		if k := s.FirstNonrepulsiveStep(maxN, epsV, false, ownID, intruderID); k >= 0 && k < best {
			best = k
		}
	}
	if best > maxN {
		return -1
	}
	return best
}

// TrajConflictOnlyBands scans k = 0..max, entering a green band when
// CDFutureTraj(primary) is false and closing it when it becomes true,
// emitting the resulting green Integerval[] (spec.md §4.5).
func (s *Sampler) TrajConflictOnlyBands(max int) []Integerval {
	var out []Integerval
	inGreen := false
	start := 0
	for k := 0; k <= max; k++ {
		green := !s.CDFutureTraj(s.Det, k)
		switch {
		case green && !inGreen:
			start = k
			inGreen = true
		case !green && inGreen:
			out = append(out, Integerval{Lo: start, Hi: k - 1})
			inGreen = false
		}
	}
	if inGreen {
		out = append(out, Integerval{Lo: start, Hi: max})
	}
	return out
}

// BandsCombine runs the scan in both stepping directions and merges
// them into one set of intervals over the signed integer line:
// negative steps (left direction, negated and reversed) followed by
// non-negative steps (right direction); adjacent intervals sharing an
// endpoint are merged (spec.md §4.5).
func BandsCombine(left, right []Integerval) []Integerval {
	negatedLeft := make([]Integerval, len(left))
	for i, iv := range left {
		negatedLeft[len(left)-1-i] = Integerval{Lo: -iv.Hi, Hi: -iv.Lo}
	}
	combined := append(negatedLeft, right...)
	return mergeAdjacent(combined)
}

func mergeAdjacent(ivs []Integerval) []Integerval {
	if len(ivs) == 0 {
		return nil
	}
	out := []Integerval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi+1 {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}
