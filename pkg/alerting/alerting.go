// Package alerting implements the per-traffic, per-alerter threshold
// evaluation (C7): scanning an Alerter's nested severity levels to
// determine the alert level for one traffic aircraft, honoring each
// level's early-alerting/hysteresis-aware time bound and optional
// maneuvering-hint spread check.
package alerting

import (
	"math"

	"github.com/airspace-systems/daidalus-go/pkg/detector"
	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

// HysteresisLookup reports whether the given alert level is currently
// present in this traffic aircraft's hysteresis buffer within its
// persistence window, used to select early vs. normal alerting time
// (spec.md §4.7).
type HysteresisLookup func(level int) bool

// DetectorResolver resolves an AlertThreshold's detector id to a usable
// Detector instance.
type DetectorResolver func(id string) (detector.Detector, error)

// Evaluate scans alerter.Levels from most to least severe and returns
// the highest level whose detector reports a conflict within
// [0, effectiveAlertingTime] (spec.md §4.7) that also holds under every
// spread perturbation (spreadRobust), along with that level's region. Level 0 / RegionNone means no alert.
func Evaluate(alerter params.Alerter, own, traffic detector.State, ownTrackRad, ownGroundSpeed, ownVerticalRS float64, hyst HysteresisLookup, resolve DetectorResolver) (level int, region params.Region) {
	for k := len(alerter.Levels); k >= 1; k-- {
		th := alerter.Levels[k-1]
		det, err := resolve(th.Detector)
		if err != nil {
			continue
		}
		effective := th.AlertingTime
		if th.EarlyAlertingTime > 0 && hyst != nil && hyst(k) {
			effective = th.EarlyAlertingTime
		}
		interval := det.ConflictDetection(own, traffic, 0, effective)
		if !interval.Conflict {
			continue
		}
		if !spreadRobust(th, det, own, traffic, ownTrackRad, ownGroundSpeed, ownVerticalRS, effective) {
			continue
		}
		return k, th.Region
	}
	return 0, params.RegionNone
}

// spreadRobust reports whether the conflict at level th also holds
// under each configured spread perturbation of the ownship's reported
// state, narrowing the alert's search range so sensor noise or a small
// maneuvering hint doesn't flip an alert on and off every cycle (the
// "maneuvering-hint-narrowed search ranges" spec.md's Alerting
// component names). A zero spread value disables that axis's check.
func spreadRobust(th params.AlertThreshold, det detector.Detector, own, traffic detector.State, trackRad, groundSpeed, verticalRS, effectiveTime float64) bool {
	for _, perturbed := range perturbations(th, own, trackRad, groundSpeed, verticalRS) {
		interval := det.ConflictDetection(perturbed, traffic, 0, effectiveTime)
		if !interval.Conflict {
			return false
		}
	}
	return true
}

func perturbations(th params.AlertThreshold, own detector.State, trackRad, groundSpeed, verticalRS float64) []detector.State {
	var out []detector.State
	if th.SpreadHdir > 0 {
		for _, sign := range []float64{-1, 1} {
			t := trackRad + sign*th.SpreadHdir
			out = append(out, detector.State{Pos: own.Pos, Vel: velocityVector(t, groundSpeed, verticalRS)})
		}
	}
	if th.SpreadHS > 0 {
		for _, sign := range []float64{-1, 1} {
			gs := math.Max(0, groundSpeed+sign*th.SpreadHS)
			out = append(out, detector.State{Pos: own.Pos, Vel: velocityVector(trackRad, gs, verticalRS)})
		}
	}
	if th.SpreadVS > 0 {
		for _, sign := range []float64{-1, 1} {
			vs := verticalRS + sign*th.SpreadVS
			out = append(out, detector.State{Pos: own.Pos, Vel: velocityVector(trackRad, groundSpeed, vs)})
		}
	}
	if th.SpreadAlt > 0 {
		for _, sign := range []float64{-1, 1} {
			p := own.Pos
			p.Z += sign * th.SpreadAlt
			out = append(out, detector.State{Pos: p, Vel: own.Vel})
		}
	}
	return out
}

func velocityVector(trackRad, groundSpeed, verticalRS float64) geometry.Vector3 {
	return geometry.Vector3{
		X: groundSpeed * math.Sin(trackRad),
		Y: groundSpeed * math.Cos(trackRad),
		Z: verticalRS,
	}
}
