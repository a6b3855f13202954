package daidalus

import (
	"math"
	"sort"

	"github.com/airspace-systems/daidalus-go/pkg/bandsint"
	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
	"github.com/airspace-systems/daidalus-go/pkg/criteria"
	"github.com/airspace-systems/daidalus-go/pkg/detector"
	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/params"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
	"github.com/airspace-systems/daidalus-go/pkg/uncertainty"
)

// BandsRange is one breakpoint-to-breakpoint segment of a dimension's
// final output, labelled with the most severe region active across it
// (spec.md §4.6 "Output assembly").
type BandsRange struct {
	Lo, Hi float64
	Region params.Region
}

// dimensionBounds returns [min, max] and the modulus (2π for direction,
// 0 otherwise) for dim, applying the absolute min/max and the relative
// overrides (spec.md §4.6 step 1).
func dimensionBounds(dim kinematics.Dimension, p *params.Parameters, ownValue float64) (lo, hi, modulus float64) {
	switch dim {
	case kinematics.DimDirection:
		return ownValue - p.LeftHdir, ownValue + p.RightHdir, 2 * math.Pi
	case kinematics.DimHorizontalSpeed:
		lo = applyRelative(p.MinHS, ownValue, p.BelowRelativeHS, true)
		hi = applyRelative(p.MaxHS, ownValue, p.AboveRelativeHS, false)
		return lo, hi, 0
	case kinematics.DimVerticalSpeed:
		lo = applyRelative(p.MinVS, ownValue, p.BelowRelativeVS, true)
		hi = applyRelative(p.MaxVS, ownValue, p.AboveRelativeVS, false)
		return lo, hi, 0
	case kinematics.DimAltitude:
		lo = applyRelative(p.MinAlt, ownValue, p.BelowRelativeAlt, true)
		hi = applyRelative(p.MaxAlt, ownValue, p.AboveRelativeAlt, false)
		return lo, hi, 0
	}
	return 0, 0, 0
}

func applyRelative(extremum, ownValue, relative float64, isBelow bool) float64 {
	switch relative {
	case 0, params.RelativeToExtremum:
		return extremum
	default:
		if isBelow {
			return math.Max(extremum, ownValue-relative)
		}
		return math.Min(extremum, ownValue+relative)
	}
}

func dimensionOwnValue(dim kinematics.Dimension, own kinematics.OwnState) float64 {
	switch dim {
	case kinematics.DimDirection:
		return own.TrackRad
	case kinematics.DimHorizontalSpeed:
		return own.GroundSpeed
	case kinematics.DimVerticalSpeed:
		return own.VerticalRS
	case kinematics.DimAltitude:
		return own.Pos.Z
	}
	return 0
}

func dimensionStep(dim kinematics.Dimension, p *params.Parameters) float64 {
	switch dim {
	case kinematics.DimDirection:
		return p.StepHdir
	case kinematics.DimHorizontalSpeed:
		return p.StepHS
	case kinematics.DimVerticalSpeed:
		return p.StepVS
	case kinematics.DimAltitude:
		return p.StepAlt
	}
	return 1
}

func dimensionKey(dim kinematics.Dimension) string {
	switch dim {
	case kinematics.DimDirection:
		return "hdir"
	case kinematics.DimHorizontalSpeed:
		return "hs"
	case kinematics.DimVerticalSpeed:
		return "vs"
	case kinematics.DimAltitude:
		return "alt"
	}
	return ""
}

// persistencePreferred returns the dimension's persistence_preferred_*
// bound, the maximum drift from the prior resolution's own value still
// eligible to carry it forward (spec.md §4.8/§9 Open Question (c)).
func persistencePreferred(dim kinematics.Dimension, p *params.Parameters) float64 {
	switch dim {
	case kinematics.DimDirection:
		return p.PersistencePreferredHdir
	case kinematics.DimHorizontalSpeed:
		return p.PersistencePreferredHS
	case kinematics.DimVerticalSpeed:
		return p.PersistencePreferredVS
	case kinematics.DimAltitude:
		return p.PersistencePreferredAlt
	}
	return 0
}

func kinematicsProfile(p *params.Parameters) kinematics.Profile {
	return kinematics.Profile{
		StepHdir: p.StepHdir, StepHS: p.StepHS, StepVS: p.StepVS, StepAlt: p.StepAlt,
		TurnRate: p.TurnRate, BankAngle: p.BankAngle, BankAngleSet: p.BankAngleSet,
		HorizontalAccel: p.HorizontalAccel, VerticalAccel: p.VerticalAccel,
		VerticalRate: p.VerticalRate,
	}
}

// severityOrder lists the conflict regions from most to least severe,
// the order bandsreal.ComposeMonotone requires (spec.md §4.6 step 4).
var severityOrder = []params.Region{params.RegionNear, params.RegionMid, params.RegionFar}

// dimensionMaxN bounds the integer-band search: the number of steps
// needed to cover [lo,hi] at the dimension's step size, from ownValue.
func dimensionMaxN(lo, hi, ownValue, step float64) int {
	span := math.Max(ownValue-lo, hi-ownValue)
	n := int(math.Ceil(span/step)) + 1
	if n < 1 {
		n = 1
	}
	return n
}

// greenSetForRegion computes one region's green interval set (before
// monotonicity), intersecting across every traffic aircraft whose
// selected alerter level targets this region. Each direction's green
// span is the integer-band search index (C5/bands_search_index): the
// first step that is either a loss of separation under the level's own
// detector, a loss of separation under the NMAC floor within the
// level's alerting-time horizon (the recovery-detector term), or a
// break of implicit-coordination repulsion for the most urgent
// traffic aircraft (spec.md §4.3/§4.5).
func (f *Daidalus) greenSetForRegion(dim kinematics.Dimension, region params.Region, own kinematics.OwnState, maxN int) bandsreal.Set {
	p := f.core.Params
	step := dimensionStep(dim, p)
	profile := kinematicsProfile(p)
	ownValue := dimensionOwnValue(dim, own)
	_, _, modulus := dimensionBounds(dim, p, ownValue)
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)

	nmac := detector.NewCylinder(detector.CylinderRadii{Horizontal: p.HorizontalNMAC, Vertical: p.VerticalNMAC})
	urgentID := ""
	if p.ConflictCrit {
		urgentID = f.mostUrgentAircraftID(own, ownVel)
	}

	var perTraffic []bandsreal.Set
	for _, traffic := range f.core.Traffic {
		alerter, ok := p.AlerterFor(f.resolvedAlerterIndex(traffic))
		if !ok {
			continue
		}
		th, det, ok := detectorForLevel(alerter, region)
		if !ok {
			continue
		}
		det = inflateForUncertainty(det, f.core.Ownship, traffic, p.ZScores())
		recoveryDet := inflateForUncertainty(nmac, f.core.Ownship, traffic, p.ZScores())
		tPos, tVel := f.core.ProjectedEuclidean(traffic)
		trafficState := detector.State{Pos: tPos, Vel: tVel}

		relPosH := trafficState.Pos.Sub(own.Pos).Vect2()
		relVelH := trafficState.Vel.Sub(ownVel).Vect2()
		epsH := criteria.EpsilonH(relPosH, relVelH, f.core.Ownship.ID, traffic.ID)
		epsV := criteria.EpsilonV(trafficState.Vel.Z-ownVel.Z, f.core.Ownship.ID, traffic.ID)
		isRepulsive := p.ConflictCrit && traffic.ID == urgentID

		leftSampler := &bandsint.Sampler{Own: own, TrafficPos: trafficState, Dim: dim, Sign: kinematics.Down, Profile: profile, Det: det, RecoveryDet: recoveryDet, B: th.AlertingTime, T: p.LookaheadTime}
		rightSampler := &bandsint.Sampler{Own: own, TrafficPos: trafficState, Dim: dim, Sign: kinematics.Up, Profile: profile, Det: det, RecoveryDet: recoveryDet, B: th.AlertingTime, T: p.LookaheadTime}
		delta := kinematics.StepDelta(dim, profile, own.GroundSpeed)
		leftIdx := leftSampler.BandsSearchIndex(maxN, delta, isRepulsive, epsH, epsV, f.core.Ownship.ID, traffic.ID)
		rightIdx := rightSampler.BandsSearchIndex(maxN, delta, isRepulsive, epsH, epsV, f.core.Ownship.ID, traffic.ID)
		combined := bandsint.BandsCombine(boundaryToGreen(leftIdx, maxN), boundaryToGreen(rightIdx, maxN))

		var realSet bandsreal.Set
		for _, iv := range combined {
			real := bandsreal.ToReal(iv, step, ownValue)
			realSet = append(realSet, bandsreal.WrapModulus(real, modulus)...)
		}
		perTraffic = append(perTraffic, realSet.Normalize())
	}
	lo, hi, _ := dimensionBounds(dim, p, ownValue)
	universe := bandsreal.Set{{Lo: lo, Hi: hi}}
	return bandsreal.IntersectAll(universe, perTraffic)
}

// boundaryToGreen turns a BandsSearchIndex result (the first bad step,
// or -1 if none) into the single green Integerval it implies: [0,idx-1],
// the full [0,maxN] span when idx is -1, or no interval at all when the
// very first step is already bad.
func boundaryToGreen(idx, maxN int) []bandsint.Integerval {
	if idx == 0 {
		return nil
	}
	hi := maxN
	if idx > 0 {
		hi = idx - 1
	}
	return []bandsint.Integerval{{Lo: 0, Hi: hi}}
}

// mostUrgentAircraftID approximates DaidalusCore's most-urgent-aircraft
// selection without porting its full urgency-strategy machinery: among
// traffic currently in conflict with the ownship under the default
// cylinder, the one with the smallest predicted time to loss of
// separation, ties broken lexicographically by identifier (spec.md
// §4.3's repulsive-criterion aircraft is the only one whose epsilon is
// live; every other intruder's repulsive check is skipped).
func (f *Daidalus) mostUrgentAircraftID(own kinematics.OwnState, ownVel geometry.Vector3) string {
	ranking := detector.NewCylinder(detector.DefaultCylinderRadii())
	ownState := detector.State{Pos: own.Pos, Vel: ownVel}
	best, bestTime := "", math.Inf(1)
	for _, traffic := range f.core.Traffic {
		tPos, tVel := f.core.ProjectedEuclidean(traffic)
		interval := ranking.ConflictDetection(ownState, detector.State{Pos: tPos, Vel: tVel}, 0, f.core.Params.LookaheadTime)
		if !interval.Conflict {
			continue
		}
		if interval.TimeIn < bestTime || (interval.TimeIn == bestTime && traffic.ID < best) {
			bestTime, best = interval.TimeIn, traffic.ID
		}
	}
	return best
}

// detectorForLevel resolves the detector and alerting threshold the
// first alert level targeting region uses, or ok=false if no level of
// alerter targets it (that traffic does not constrain this region's
// bands).
func detectorForLevel(alerter params.Alerter, region params.Region) (params.AlertThreshold, detector.Detector, bool) {
	for _, lvl := range alerter.Levels {
		if lvl.Region != region {
			continue
		}
		det, err := detector.New(lvl.Detector)
		if err != nil {
			return params.AlertThreshold{}, nil, false
		}
		return lvl, det, true
	}
	return params.AlertThreshold{}, nil, false
}

// inflateForUncertainty widens det's nominal radii by the combined
// ownship/intruder SUM position error, scaled by the configured
// z-scores (spec.md §3's sensor-uncertainty-mitigation block). A nil
// SUM on either aircraft contributes zero error, so bands for aircraft
// with no uncertainty data are unaffected.
func inflateForUncertainty(det detector.Detector, own, traffic tstate.Aircraft, z uncertainty.ZScores) detector.Detector {
	ownSUM := sumOf(own)
	trafficSUM := sumOf(traffic)
	if ownSUM == (uncertainty.SUM{}) && trafficSUM == (uncertainty.SUM{}) {
		return det
	}
	nomH, nomV := det.NominalRadii()
	h := uncertainty.InflatedHorizontalRadius(nomH, ownSUM, trafficSUM, z)
	v := uncertainty.InflatedVerticalRadius(nomV, ownSUM, trafficSUM, z)
	return det.WithRadii(h, v)
}

func sumOf(ac tstate.Aircraft) uncertainty.SUM {
	if ac.Uncertainty == nil {
		return uncertainty.SUM{}
	}
	return *ac.Uncertainty
}

// Bands computes the final BandsRange[] for a dimension: per-region
// green sets, region monotonicity, and recovery-band substitution when
// the corrective region saturates (spec.md §4.6).
func (f *Daidalus) Bands(dim kinematics.Dimension) []BandsRange {
	f.refresh()
	own := f.ownState()
	ownValue := dimensionOwnValue(dim, own)
	lo, hi, modulus := dimensionBounds(dim, f.core.Params, ownValue)
	maxN := dimensionMaxN(lo, hi, ownValue, dimensionStep(dim, f.core.Params))

	var regions []bandsreal.RegionBands
	for _, r := range severityOrder {
		regions = append(regions, bandsreal.RegionBands{Region: r, Green: f.greenSetForRegion(dim, r, own, maxN)})
	}
	composed := bandsreal.ComposeMonotone(regions)

	var recoveryGreen bandsreal.Set
	if isSaturated(composed, f.core.Params.CorrectiveRegion) {
		result := f.runRecovery(dim, own)
		if result.Found {
			recoveryGreen = bandsreal.Set{{Lo: lo, Hi: hi}}
			_ = recoveryGreen // RECOVERY labels the full saturated span; see assembleRanges.
		}
	}

	return assembleRanges(lo, hi, modulus, composed, recoveryGreen)
}

func isSaturated(composed []bandsreal.RegionBands, corrective params.Region) bool {
	for _, rb := range composed {
		if rb.Region == corrective {
			return len(rb.Green) == 0
		}
	}
	return false
}

// assembleRanges builds the final labelled segments from the composed,
// most-to-least-severe green sets plus any recovery interval, by
// collecting every interval endpoint as a breakpoint and classifying
// each resulting segment by the most severe region whose green set
// excludes it (spec.md §4.6 "Output assembly").
func assembleRanges(lo, hi, modulus float64, composed []bandsreal.RegionBands, recovery bandsreal.Set) []BandsRange {
	breakpoints := map[float64]bool{lo: true, hi: true}
	for _, rb := range composed {
		for _, iv := range rb.Green {
			breakpoints[clamp(iv.Lo, lo, hi)] = true
			breakpoints[clamp(iv.Hi, lo, hi)] = true
		}
	}
	var points []float64
	for p := range breakpoints {
		points = append(points, p)
	}
	sort.Float64s(points)

	var out []BandsRange
	for i := 0; i+1 < len(points); i++ {
		segLo, segHi := points[i], points[i+1]
		if segHi <= segLo {
			continue
		}
		mid := (segLo + segHi) / 2
		region := classify(mid, composed, recovery)
		if len(out) > 0 && out[len(out)-1].Region == region && out[len(out)-1].Hi == segLo {
			out[len(out)-1].Hi = segHi
			continue
		}
		out = append(out, BandsRange{Lo: segLo, Hi: segHi, Region: region})
	}
	_ = modulus
	return out
}

func classify(v float64, composed []bandsreal.RegionBands, recovery bandsreal.Set) params.Region {
	// composed is most-to-least severe; the most severe region whose
	// green set EXCLUDES v is the active label, else NONE (or RECOVERY
	// when a successful recovery search covers this segment and every
	// region is still saturated here).
	for _, rb := range composed {
		if !setContains(rb.Green, v) {
			if setContains(recovery, v) {
				return params.RegionRecovery
			}
			return rb.Region
		}
	}
	return params.RegionNone
}

func setContains(s bandsreal.Set, v float64) bool {
	for _, iv := range s {
		if v >= iv.Lo && v <= iv.Hi {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runRecovery performs the shrinking-volume recovery search for dim
// when its corrective region is fully saturated (spec.md §4.6 "Recovery
// search"), recording the result for Recovery(dim) and for the RECOVERY
// label in Bands(dim).
func (f *Daidalus) runRecovery(dim kinematics.Dimension, own kinematics.OwnState) bandsreal.RecoveryResult {
	key := dimensionKey(dim)
	if !f.recoverEnabled(dim) {
		f.recoveryResults[key] = bandsreal.RecoveryResult{}
		return f.recoveryResults[key]
	}
	p := f.core.Params
	ownAlt := own.Pos.Z
	minH := p.EffectiveHorizontalRecovery(ownAlt)
	minV := p.EffectiveVerticalRecovery(ownAlt)
	ownVel := kinematics.Velocity(own.TrackRad, own.GroundSpeed, own.VerticalRS)

	evalFn := func(h, v, pivot float64) bool {
		cyl := detector.NewCylinder(detector.CylinderRadii{Horizontal: h, Vertical: v})
		advancedOwn := own.Pos.Add(ownVel.Scal(pivot))
		ownSt := detector.State{Pos: advancedOwn, Vel: ownVel}
		for _, traffic := range f.core.Traffic {
			tPos, tVel := f.core.ProjectedEuclidean(traffic)
			advancedTraffic := tPos.Add(tVel.Scal(pivot))
			trafficSt := detector.State{Pos: advancedTraffic, Vel: tVel}
			if cyl.Violation(ownSt, trafficSt) {
				return false
			}
		}
		return true
	}
	result := bandsreal.Search(minH, minV, p.HorizontalNMAC, p.VerticalNMAC, p.CAFactor, p.LookaheadTime, p.RecoveryStabilityTime, p.CAEnabled, evalFn)
	f.recoveryResults[key] = result
	if p.Log != nil && !result.Found {
		p.Log.SaturationInfo(key)
	}
	return result
}

func (f *Daidalus) recoverEnabled(dim kinematics.Dimension) bool {
	p := f.core.Params
	switch dim {
	case kinematics.DimDirection:
		return p.RecoverHdir
	case kinematics.DimHorizontalSpeed:
		return p.RecoverHS
	case kinematics.DimVerticalSpeed:
		return p.RecoverVS && !f.dtaVerticalRecoveryDisabled()
	case kinematics.DimAltitude:
		return p.RecoverAlt && !f.dtaVerticalRecoveryDisabled()
	}
	return false
}

// Recovery returns the most recently computed recovery-search result
// for dim (zero value if the dimension has never saturated).
func (f *Daidalus) Recovery(dim kinematics.Dimension) bandsreal.RecoveryResult {
	f.refresh()
	return f.recoveryResults[dimensionKey(dim)]
}
