package daidalus

import (
	"math"
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/alerting"
	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
	"github.com/airspace-systems/daidalus-go/pkg/detector"
	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/params"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
)

// Daidalus is the pure-query façade (C10) above Core (C9): every
// mutation method bumps the core's generation, every query method
// calls refresh() first (spec.md §4.10).
type Daidalus struct {
	core            *Core
	recoveryResults map[string]bandsreal.RecoveryResult
	dtaAlerterIndex map[string]int
}

// New returns an empty façade instance with the default parameter
// block.
func New() *Daidalus {
	return &Daidalus{core: NewCore(), recoveryResults: map[string]bandsreal.RecoveryResult{}}
}

// --- Mutation methods ---

// SetOwnship installs the ownship state. See Core.SetOwnship for the
// invalidation rule.
func (f *Daidalus) SetOwnship(ac tstate.Aircraft) {
	f.core.SetOwnship(ac)
}

// AddTraffic appends a traffic aircraft, returning its 1-based index.
// Returns a *StateError via the parameter log if ownship has not been
// set (spec.md §7: mixing invalid/valid state).
func (f *Daidalus) AddTraffic(ac tstate.Aircraft) int {
	if !f.core.Ownship.IsValid() {
		if f.core.Params.Log != nil {
			f.core.Params.Log.StateInvalid(&params.StateError{Message: "add_traffic called before ownship was set"})
		}
		return 0
	}
	return f.core.AddTraffic(ac)
}

// RemoveTraffic removes the traffic aircraft at the given 1-based index.
func (f *Daidalus) RemoveTraffic(index int) { f.core.RemoveTraffic(index) }

// SetWind installs the wind vector (TO convention).
func (f *Daidalus) SetWind(w geometry.Vector3) { f.core.SetWind(w) }

// SetParameters installs a new, validated parameter block.
func (f *Daidalus) SetParameters(p *params.Parameters) error { return f.core.SetParameters(p) }

// SetLookaheadTime is a convenience mutator matching spec.md §7's
// reject-and-keep-prior-value pattern, delegating to the parameter
// block's own validated setter.
func (f *Daidalus) SetLookaheadTime(seconds float64) error {
	err := f.core.Params.SetLookaheadTime(seconds)
	f.core.bump()
	return err
}

// --- Query support ---

// refresh recomputes the state every query method needs but that isn't
// cheap to derive inline: the per-traffic DTA-resolved alerter index
// (spec.md §4.10's "pure query methods" still need this one piece of
// per-generation state, since the DTA hysteresis datum must advance
// exactly once per refresh rather than once per query call).
func (f *Daidalus) refresh() {
	if f.core.Stale() {
		f.computeDTA()
		f.core.MarkFresh()
	}
}

func (f *Daidalus) ownState() kinematics.OwnState {
	pos, vel := f.core.ProjectedEuclidean(f.core.Ownship)
	return kinematics.OwnState{
		Pos:         pos,
		TrackRad:    vel.Vect2().Track(),
		GroundSpeed: vel.Vect2().Norm(),
		VerticalRS:  vel.Z,
	}
}

// --- Query methods ---

// Resolution scans the composed BandsRange[] for dim, returning the
// nearest boundary below and above the current own value that exits
// the corrective-or-worse region (spec.md §4.6 "Resolution advisory").
func (f *Daidalus) Resolution(dim kinematics.Dimension) (low, up float64, hasLow, hasUp bool) {
	ranges := f.Bands(dim)
	own := dimensionOwnValue(dim, f.ownState())
	corrective := f.core.Params.CorrectiveRegion

	low, hasLow = math.Inf(-1), false
	up, hasUp = math.Inf(1), false
	saturated := false
	var green bandsreal.Set
	for _, r := range ranges {
		if r.Region.AtLeastAsSevereAs(corrective) {
			saturated = true
			continue
		}
		if r.Region == params.RegionRecovery {
			continue
		}
		green = append(green, bandsreal.Interval{Lo: r.Lo, Hi: r.Hi})
		if r.Hi <= own && r.Hi > low {
			low, hasLow = r.Hi, true
		}
		if r.Lo >= own && (!hasUp || r.Lo < up) {
			up, hasUp = r.Lo, true
		}
	}

	if !f.core.Params.BandsPersistence {
		return low, up, hasLow, hasUp
	}
	datum := f.core.Hyst.BandsDatumFor(dimensionKey(dim))
	preferred := persistencePreferred(dim, f.core.Params)
	if pLow, pUp, _, ok := datum.Carry(saturated, green, own, preferred); ok {
		return pLow, pUp, true, true
	}
	preferredDir := low
	if preferUp(own, low, up, hasLow, hasUp) {
		preferredDir = up
	}
	datum.Store(low, up, preferredDir)
	return low, up, hasLow, hasUp
}

// preferUp reports whether the up-side resolution is the preferred
// direction, the same nearest-distance-with-up-tiebreak rule
// PreferredDirection applies (spec.md §4.6).
func preferUp(own, low, up float64, hasLow, hasUp bool) bool {
	if !hasLow {
		return true
	}
	if !hasUp {
		return false
	}
	return math.Abs(up-own) <= math.Abs(own-low)
}

// PreferredDirection returns the side (low=false, up=true) closer in
// absolute distance to the own value, defaulting to up on a tie
// (spec.md §4.6).
func (f *Daidalus) PreferredDirection(dim kinematics.Dimension) bool {
	low, up, hasLow, hasUp := f.Resolution(dim)
	own := dimensionOwnValue(dim, f.ownState())
	return preferUp(own, low, up, hasLow, hasUp)
}

// AlertLevel evaluates the alerting engine (C7) for the traffic
// aircraft at the given 1-based index, applying M-of-N hysteresis and
// persistence (spec.md §4.7/§4.8).
func (f *Daidalus) AlertLevel(trafficIndex int) (int, params.Region) {
	f.refresh()
	if trafficIndex < 1 || trafficIndex > len(f.core.Traffic) {
		return 0, params.RegionNone
	}
	traffic := f.core.Traffic[trafficIndex-1]
	alerter, ok := f.core.Params.AlerterFor(f.resolvedAlerterIndex(traffic))
	if !ok {
		return 0, params.RegionNone
	}
	own := f.ownState()
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)
	ownState := detector.State{Pos: own.Pos, Vel: ownVel}
	tPos, tVel := f.core.ProjectedEuclidean(traffic)
	trafficState := detector.State{Pos: tPos, Vel: tVel}

	datum := f.core.Hyst.AlertDatumFor(traffic.ID, f.core.Params.AlertingN, f.core.Params.AlertingM)
	hystLookup := func(level int) bool {
		// The early-alerting-time substitution fires when the level being
		// evaluated is the one already being reported, mirroring the
		// original's check against the previously computed alert value.
		last, ok := datum.LastReportedLevel()
		return ok && last == level
	}
	resolve := func(id string) (detector.Detector, error) { return detector.New(id) }

	raw, region := alerting.Evaluate(alerter, ownState, trafficState, own.TrackRad, own.GroundSpeed, own.VerticalRS, hystLookup, resolve)
	smoothed := datum.Update(f.core.CurrentTime, raw, f.core.Params.HysteresisTime, f.core.Params.PersistenceTime)
	if smoothed != raw {
		if lvl, ok := alerter.Level(smoothed); ok {
			region = lvl.Region
		} else if smoothed == 0 {
			region = params.RegionNone
		}
	}
	return smoothed, region
}

// LastTimeToManeuver bisects on a look-ahead offset tau in [0, T],
// finding the largest tau such that linearly projecting both aircraft
// forward by tau and checking every own heading direction still yields
// at least one non-conflicting (green) direction (spec.md §4.6).
// Returns -Inf if no tau > 0 works, NaN if there is currently no
// conflict with this traffic at all.
func (f *Daidalus) LastTimeToManeuver(trafficIndex int) float64 {
	f.refresh()
	if trafficIndex < 1 || trafficIndex > len(f.core.Traffic) {
		return math.NaN()
	}
	traffic := f.core.Traffic[trafficIndex-1]
	own := f.ownState()
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)
	tPos, tVel := f.core.ProjectedEuclidean(traffic)

	cyl := f.trafficDetector(traffic)
	currentlyConflicted := cyl.ConflictDetection(
		detector.State{Pos: own.Pos, Vel: ownVel},
		detector.State{Pos: tPos, Vel: tVel}, 0, f.core.Params.LookaheadTime,
	).Conflict
	if !currentlyConflicted {
		return math.NaN()
	}

	hasGreenAt := func(tau float64) bool {
		advancedOwnPos := own.Pos.Add(ownVel.Scal(tau))
		advancedTrafficPos := tPos.Add(tVel.Scal(tau))
		const nHeadings = 36
		for i := 0; i < nHeadings; i++ {
			heading := 2 * math.Pi * float64(i) / nHeadings
			candidateVel := kinematics.Velocity(heading, own.GroundSpeed, own.VerticalRS)
			interval := cyl.ConflictDetection(
				detector.State{Pos: advancedOwnPos, Vel: candidateVel},
				detector.State{Pos: advancedTrafficPos, Vel: tVel}, 0, f.core.Params.LookaheadTime,
			)
			if !interval.Conflict {
				return true
			}
		}
		return false
	}

	if !hasGreenAt(0) {
		return math.Inf(-1)
	}
	lo, hi := 0.0, f.core.Params.LookaheadTime
	for hi-lo > 0.5 {
		mid := (lo + hi) / 2
		if hasGreenAt(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Contours delegates directly to the traffic's detector
// (spec.md §4.10).
func (f *Daidalus) Contours(trafficIndex int, thetaRad float64) [][]geometry.Vector2 {
	f.refresh()
	if trafficIndex < 1 || trafficIndex > len(f.core.Traffic) {
		return nil
	}
	traffic := f.core.Traffic[trafficIndex-1]
	own := f.ownState()
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)
	tPos, tVel := f.core.ProjectedEuclidean(traffic)
	cyl := f.trafficDetector(traffic)
	return cyl.HorizontalContours(
		detector.State{Pos: own.Pos, Vel: ownVel},
		detector.State{Pos: tPos, Vel: tVel},
		thetaRad, f.core.Params.LookaheadTime,
	)
}

// HazardZone delegates directly to the traffic's detector
// (spec.md §4.10).
func (f *Daidalus) HazardZone(trafficIndex int, marginSeconds float64) []geometry.Vector2 {
	f.refresh()
	if trafficIndex < 1 || trafficIndex > len(f.core.Traffic) {
		return nil
	}
	traffic := f.core.Traffic[trafficIndex-1]
	own := f.ownState()
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)
	tPos, tVel := f.core.ProjectedEuclidean(traffic)
	cyl := f.trafficDetector(traffic)
	return cyl.HorizontalHazardZone(
		detector.State{Pos: own.Pos, Vel: ownVel},
		detector.State{Pos: tPos, Vel: tVel},
		marginSeconds,
	)
}

// trafficDetector resolves the separation-volume detector these
// queries actually mean by "C2": the most severe level of traffic's
// DTA-resolved alerter, inflated the same way the band pipeline
// inflates it for sensor uncertainty (spec.md §4.10 "delegate directly
// to C2"). Falls back to the default cylinder only when traffic has no
// usable alerter, matching the previous unconditional default.
func (f *Daidalus) trafficDetector(traffic tstate.Aircraft) detector.Detector {
	alerter, ok := f.core.Params.AlerterFor(f.resolvedAlerterIndex(traffic))
	if !ok || len(alerter.Levels) == 0 {
		return detector.NewCylinder(detector.DefaultCylinderRadii())
	}
	th := alerter.Levels[len(alerter.Levels)-1]
	det, err := detector.New(th.Detector)
	if err != nil {
		return detector.NewCylinder(detector.DefaultCylinderRadii())
	}
	return inflateForUncertainty(det, f.core.Ownship, traffic, f.core.Params.ZScores())
}

// Log returns the accumulated diagnostic entries (parameter rejections,
// projection warnings, saturation notices) since the last Clear.
func (f *Daidalus) Log() []params.LogEntry {
	if f.core.Params.Log == nil {
		return nil
	}
	return f.core.Params.Log.Entries()
}

// Now returns the core's current time, used by callers driving the
// façade at a fixed rate to decide when to push the next ownship state.
func (f *Daidalus) Now() time.Time { return f.core.CurrentTime }
