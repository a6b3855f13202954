package kinematics

import (
	"math"
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

func straightProfile() Profile {
	return Profile{StepHdir: 0.1, StepHS: 1, StepVS: 1, StepAlt: 30}
}

func TestProjectInstantaneousHorizontalSpeed(t *testing.T) {
	own := OwnState{Pos: geometry.Vector3{}, TrackRad: 0, GroundSpeed: 50, VerticalRS: 0}
	p := straightProfile()
	s := Project(own, DimHorizontalSpeed, Up, 3, p)
	if !s.Reachable {
		t.Fatal("instantaneous horizontal-speed step should always be reachable")
	}
	if math.Abs(s.Vel.Vect2().Norm()-53) > 1e-6 {
		t.Errorf("expected new ground speed 53, got %v", s.Vel.Vect2().Norm())
	}
}

func TestProjectKinematicTurnPreservesGroundSpeed(t *testing.T) {
	own := OwnState{Pos: geometry.Vector3{}, TrackRad: 0, GroundSpeed: 50, VerticalRS: 0}
	p := Profile{StepHdir: 10 * math.Pi / 180, TurnRate: 3 * math.Pi / 180, StepHS: 1, StepVS: 1, StepAlt: 30}
	delta := StepDelta(DimDirection, p, own.GroundSpeed)
	long := Project(own, DimDirection, Up, int(60.0/delta)+5, p)
	wantTrack := geometry.NormalizeAngle(10 * math.Pi / 180 * float64(int(60.0/delta)+5))
	_ = wantTrack
	if long.Vel.Vect2().Norm() < 49 {
		t.Errorf("turn should preserve ground speed, got %v", long.Vel.Vect2().Norm())
	}
}

func TestProjectAltitudeUnreachableWhenTargetTooClose(t *testing.T) {
	own := OwnState{Pos: geometry.Vector3{Z: 1000}, TrackRad: 0, GroundSpeed: 50, VerticalRS: 0}
	p := Profile{StepAlt: 0.01, VerticalRate: 100, VerticalAccel: 1}
	s := Project(own, DimAltitude, Up, 1, p)
	if s.Reachable {
		t.Fatal("expected an unreachable altitude step for a target closer than the accel/decel distance")
	}
}

func TestIsInstantaneous(t *testing.T) {
	p := Profile{}
	if !IsInstantaneous(DimHorizontalSpeed, p) {
		t.Error("zero accel should be instantaneous")
	}
	p.HorizontalAccel = 2
	if IsInstantaneous(DimHorizontalSpeed, p) {
		t.Error("nonzero accel should be kinematic")
	}
}
