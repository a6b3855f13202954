// Package kinematics implements the trajectory projector (C4): given an
// ownship state, a step direction, and an integer step index, it
// returns the sampled position/velocity either by instantaneous
// velocity replacement or by integrating the configured
// turn/acceleration/climb profile.
package kinematics

import (
	"math"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

// Sign mirrors criteria.Sign without importing it, keeping kinematics
// free of a dependency on the criteria package (spec.md §4.4 only needs
// "+ or -", not implicit-coordination semantics).
type Sign int

const (
	Down Sign = -1
	Up   Sign = 1
)

// Dimension selects which of the four control dimensions is being
// stepped; the other three hold their current value.
type Dimension int

const (
	DimDirection Dimension = iota
	DimHorizontalSpeed
	DimVerticalSpeed
	DimAltitude
)

// OwnState is the minimal ownship kinematic state the projector needs:
// current position, track, ground speed, and vertical speed, all in
// the Euclidean frame the core computes against.
type OwnState struct {
	Pos         geometry.Vector3
	TrackRad    float64
	GroundSpeed float64
	VerticalRS  float64
}

// Profile carries the subset of the parameter block the projector
// consumes: steps, rates, and whether each dimension is instantaneous
// (its rate/accel parameter is zero) or kinematic.
type Profile struct {
	StepHdir, StepHS, StepVS, StepAlt float64
	TurnRate                         float64 // rad/s; 0 with BankAngle set means derive from bank angle
	BankAngle                        float64 // rad
	BankAngleSet                     bool
	HorizontalAccel, VerticalAccel   float64 // m/s^2
	VerticalRate                     float64 // m/s, altitude dimension's climb/descend rate
}

const gravity = 9.80665

// turnRateFromBank derives an instantaneous turn rate from bank angle
// and ground speed: omega = g*tan(phi)/v (standard coordinated-turn
// relation), used when Profile.BankAngleSet is true in place of a fixed
// TurnRate (spec.md §4.4).
func turnRateFromBank(bankAngle, groundSpeed float64) float64 {
	if groundSpeed < 1e-6 {
		return 0
	}
	return gravity * math.Tan(bankAngle) / groundSpeed
}

// StepDelta picks the integration step Δ for kinematic mode: the time
// the relevant rate parameter needs to cover one unit of the stepped
// quantity's "step" parameter, bounded below so a very small rate can't
// blow up iteration count (spec.md §4.4).
func StepDelta(dim Dimension, p Profile, ownSpeed float64) float64 {
	const minDelta = 0.5 // s
	var delta float64
	switch dim {
	case DimDirection:
		rate := p.TurnRate
		if p.BankAngleSet {
			rate = turnRateFromBank(p.BankAngle, ownSpeed)
		}
		if math.Abs(rate) < 1e-9 {
			return minDelta
		}
		delta = p.StepHdir / math.Abs(rate)
	case DimHorizontalSpeed:
		if p.HorizontalAccel < 1e-9 {
			return minDelta
		}
		delta = p.StepHS / p.HorizontalAccel
	case DimVerticalSpeed:
		if p.VerticalAccel < 1e-9 {
			return minDelta
		}
		delta = p.StepVS / p.VerticalAccel
	case DimAltitude:
		if p.VerticalRate < 1e-9 {
			return minDelta
		}
		delta = p.StepAlt / p.VerticalRate
	}
	if delta < minDelta {
		return minDelta
	}
	return delta
}

// IsInstantaneous reports whether dim's rate/accel parameter is zero,
// meaning the projector replaces the velocity component immediately
// rather than integrating a kinematic profile (spec.md §4.4).
func IsInstantaneous(dim Dimension, p Profile) bool {
	switch dim {
	case DimDirection:
		return math.Abs(p.TurnRate) < 1e-9 && !p.BankAngleSet
	case DimHorizontalSpeed:
		return p.HorizontalAccel < 1e-9
	case DimVerticalSpeed:
		return p.VerticalAccel < 1e-9
	case DimAltitude:
		return p.VerticalRate < 1e-9
	}
	return true
}

// Sample is the projector's result for one (dim, sign, k): the sampled
// position/velocity at time k*Δ, and whether that target is reachable
// (false only for altitude, when step_alt selects an unreachable
// target — spec.md §4.4: "the step is considered red").
type Sample struct {
	Time      float64
	Pos       geometry.Vector3
	Vel       geometry.Vector3
	Reachable bool
}

// Project returns the sampled state for stepping dim by k units of its
// step parameter in direction sign, from own, using profile p. t is
// k*Δ for the dimension's chosen Δ (StepDelta), matching the one
// integration the integer-band search needs per (dim, sign, k)
// (spec.md §4.4/§4.5).
func Project(own OwnState, dim Dimension, sign Sign, k int, p Profile) Sample {
	delta := StepDelta(dim, p, own.GroundSpeed)
	t := float64(k) * delta

	if IsInstantaneous(dim, p) {
		return projectInstantaneous(own, dim, sign, k, p, t)
	}
	return projectKinematic(own, dim, sign, k, p, t, delta)
}

// Velocity returns the east/north/up velocity vector for a track/
// ground-speed/vertical-speed triple, shared by every projection phase
// below and exported for callers (the band assembler) that need the
// same conversion for the ownship's current, unstepped state.
func Velocity(trackRad, groundSpeed, verticalRS float64) geometry.Vector3 {
	return geometry.Vector3{
		X: groundSpeed * math.Sin(trackRad),
		Y: groundSpeed * math.Cos(trackRad),
		Z: verticalRS,
	}
}

func velocityVector(trackRad, groundSpeed, verticalRS float64) geometry.Vector3 {
	return Velocity(trackRad, groundSpeed, verticalRS)
}

func projectInstantaneous(own OwnState, dim Dimension, sign Sign, k int, p Profile, t float64) Sample {
	track, gs, vs := own.TrackRad, own.GroundSpeed, own.VerticalRS
	switch dim {
	case DimDirection:
		track = geometry.NormalizeAngle(track + float64(sign)*float64(k)*p.StepHdir)
	case DimHorizontalSpeed:
		gs = gs + float64(sign)*float64(k)*p.StepHS
		if gs < 0 {
			gs = 0
		}
	case DimVerticalSpeed:
		vs = vs + float64(sign)*float64(k)*p.StepVS
	case DimAltitude:
		// Altitude's "instantaneous" mode has no physical meaning distinct
		// from DimVerticalSpeed's; with VerticalRate zero step_alt cannot
		// be reached in finite time, so every step is reported unreachable.
		return Sample{Time: t, Pos: own.Pos, Vel: velocityVector(track, gs, vs), Reachable: false}
	}
	vel := velocityVector(track, gs, vs)
	pos := own.Pos.Add(vel.Scal(t))
	return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
}

func projectKinematic(own OwnState, dim Dimension, sign Sign, k int, p Profile, t, delta float64) Sample {
	switch dim {
	case DimDirection:
		return projectTurn(own, sign, k, p, t)
	case DimHorizontalSpeed:
		return projectHorizontalAccel(own, sign, k, p, t)
	case DimVerticalSpeed:
		return projectVerticalAccel(own, sign, k, p, t)
	case DimAltitude:
		return projectAltitude(own, sign, k, p, t, delta)
	}
	return Sample{}
}

func projectTurn(own OwnState, sign Sign, k int, p Profile, t float64) Sample {
	rate := p.TurnRate
	if p.BankAngleSet {
		rate = turnRateFromBank(p.BankAngle, own.GroundSpeed)
	}
	targetTrack := geometry.NormalizeAngle(own.TrackRad + float64(sign)*float64(k)*p.StepHdir)
	turnDuration := geometry.AngleDiff(targetTrack, own.TrackRad) / (float64(sign) * rate)
	if turnDuration < 0 {
		turnDuration = -turnDuration
	}
	var track float64
	if t <= turnDuration {
		track = geometry.NormalizeAngle(own.TrackRad + float64(sign)*rate*t)
	} else {
		track = targetTrack
	}
	vel := velocityVector(track, own.GroundSpeed, own.VerticalRS)

	if t <= turnDuration {
		omega := float64(sign) * rate
		r := own.GroundSpeed / math.Abs(rate)
		dTrack := omega * t
		pos := own.Pos.Add(geometry.Vector3{
			X: r * (math.Cos(own.TrackRad) - math.Cos(own.TrackRad+dTrack)),
			Y: r * (math.Sin(own.TrackRad+dTrack) - math.Sin(own.TrackRad)),
			Z: own.VerticalRS * t,
		})
		return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
	}
	turnPos := turnArcEndpoint(own, sign, rate, turnDuration)
	straightVel := velocityVector(targetTrack, own.GroundSpeed, own.VerticalRS)
	pos := turnPos.Add(straightVel.Scal(t - turnDuration))
	return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
}

func turnArcEndpoint(own OwnState, sign Sign, rate, duration float64) geometry.Vector3 {
	omega := float64(sign) * rate
	r := own.GroundSpeed / math.Abs(rate)
	dTrack := omega * duration
	return own.Pos.Add(geometry.Vector3{
		X: r * (math.Cos(own.TrackRad) - math.Cos(own.TrackRad+dTrack)),
		Y: r * (math.Sin(own.TrackRad+dTrack) - math.Sin(own.TrackRad)),
		Z: own.VerticalRS * duration,
	})
}

func projectHorizontalAccel(own OwnState, sign Sign, k int, p Profile, t float64) Sample {
	target := own.GroundSpeed + float64(sign)*float64(k)*p.StepHS
	if target < 0 {
		target = 0
	}
	accelDuration := math.Abs(target-own.GroundSpeed) / p.HorizontalAccel
	accelSign := 1.0
	if target < own.GroundSpeed {
		accelSign = -1.0
	}
	var gs, distance float64
	if t <= accelDuration {
		gs = own.GroundSpeed + accelSign*p.HorizontalAccel*t
		distance = own.GroundSpeed*t + 0.5*accelSign*p.HorizontalAccel*t*t
	} else {
		gs = target
		distance = own.GroundSpeed*accelDuration + 0.5*accelSign*p.HorizontalAccel*accelDuration*accelDuration
		distance += target * (t - accelDuration)
	}
	vel := velocityVector(own.TrackRad, gs, own.VerticalRS)
	pos := own.Pos.Add(geometry.Vector3{
		X: distance * math.Sin(own.TrackRad),
		Y: distance * math.Cos(own.TrackRad),
		Z: own.VerticalRS * t,
	})
	return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
}

func projectVerticalAccel(own OwnState, sign Sign, k int, p Profile, t float64) Sample {
	target := own.VerticalRS + float64(sign)*float64(k)*p.StepVS
	accelDuration := math.Abs(target-own.VerticalRS) / p.VerticalAccel
	accelSign := 1.0
	if target < own.VerticalRS {
		accelSign = -1.0
	}
	var vs, climb float64
	if t <= accelDuration {
		vs = own.VerticalRS + accelSign*p.VerticalAccel*t
		climb = own.VerticalRS*t + 0.5*accelSign*p.VerticalAccel*t*t
	} else {
		vs = target
		climb = own.VerticalRS*accelDuration + 0.5*accelSign*p.VerticalAccel*accelDuration*accelDuration
		climb += target * (t - accelDuration)
	}
	vel := velocityVector(own.TrackRad, own.GroundSpeed, vs)
	horiz := own.GroundSpeed * t
	pos := own.Pos.Add(geometry.Vector3{
		X: horiz * math.Sin(own.TrackRad),
		Y: horiz * math.Cos(own.TrackRad),
		Z: climb,
	})
	return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
}

// projectAltitude implements the three-phase accelerate/cruise/decelerate
// climb or descent profile spec.md §4.4 describes for the altitude
// dimension. If the target altitude cannot be reached by accelerating
// to VerticalRate and decelerating back to level (the accel/decel
// distance alone overshoots the target), the step is unreachable.
func projectAltitude(own OwnState, sign Sign, k int, p Profile, t, _ float64) Sample {
	targetAlt := own.Pos.Z + float64(sign)*float64(k)*p.StepAlt
	climbNeeded := targetAlt - own.Pos.Z
	dir := 1.0
	if climbNeeded < 0 {
		dir = -1.0
	}
	vr := p.VerticalRate
	accelDuration := vr / p.VerticalAccel
	accelDistance := 0.5 * p.VerticalAccel * accelDuration * accelDuration
	if 2*accelDistance > math.Abs(climbNeeded) {
		return Sample{Time: t, Pos: own.Pos, Vel: velocityVector(own.TrackRad, own.GroundSpeed, own.VerticalRS), Reachable: false}
	}
	cruiseDistance := math.Abs(climbNeeded) - 2*accelDistance
	cruiseDuration := cruiseDistance / vr
	totalDuration := 2*accelDuration + cruiseDuration

	var climb, vs float64
	switch {
	case t <= accelDuration:
		vs = dir * p.VerticalAccel * t
		climb = 0.5 * dir * p.VerticalAccel * t * t
	case t <= accelDuration+cruiseDuration:
		vs = dir * vr
		tc := t - accelDuration
		climb = accelDistance*dir + dir*vr*tc
	case t <= totalDuration:
		td := t - accelDuration - cruiseDuration
		vs = dir * (vr - p.VerticalAccel*td)
		climb = accelDistance*dir + cruiseDistance*dir + dir*(vr*td-0.5*p.VerticalAccel*td*td)
	default:
		vs = 0
		climb = climbNeeded
	}
	horiz := own.GroundSpeed * t
	pos := own.Pos.Add(geometry.Vector3{
		X: horiz * math.Sin(own.TrackRad),
		Y: horiz * math.Cos(own.TrackRad),
		Z: climb,
	})
	vel := velocityVector(own.TrackRad, own.GroundSpeed, vs)
	return Sample{Time: t, Pos: pos, Vel: vel, Reachable: true}
}
