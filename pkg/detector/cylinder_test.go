package detector

import (
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

func TestCylinderViolationAtOrigin(t *testing.T) {
	c := NewCylinder(CylinderRadii{Horizontal: 500, Vertical: 150})
	own := State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 100}}
	intruder := State{Pos: geometry.Vector3{X: 100, Y: 0, Z: 10}, Vel: geometry.Vector3{Y: 100}}
	if !c.Violation(own, intruder) {
		t.Fatal("expected violation for co-speed aircraft 100 m apart, within radii")
	}
}

func TestCylinderConflictDetectionHeadOn(t *testing.T) {
	c := NewCylinder(CylinderRadii{Horizontal: 1000, Vertical: 150})
	own := State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 50}}
	intruder := State{Pos: geometry.Vector3{X: 0, Y: 10000, Z: 0}, Vel: geometry.Vector3{Y: -50}}
	got := c.ConflictDetection(own, intruder, 0, 300)
	if !got.Conflict {
		t.Fatal("expected a conflict interval for head-on closure")
	}
	if got.TimeIn < 0 || got.TimeOut < got.TimeIn {
		t.Errorf("invalid interval: %+v", got)
	}
}

func TestCylinderNoConflictWhenDiverging(t *testing.T) {
	c := NewCylinder(CylinderRadii{Horizontal: 500, Vertical: 150})
	own := State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 50}}
	intruder := State{Pos: geometry.Vector3{X: 5000, Y: 0}, Vel: geometry.Vector3{X: 50}}
	got := c.ConflictDetection(own, intruder, 0, 300)
	if got.Conflict {
		t.Errorf("expected no conflict for diverging traffic, got %+v", got)
	}
}

func TestWCVExpandsRadiusWhenClosingFast(t *testing.T) {
	w := NewWCV(WCVThresholds{DMOD: 200, Z: 150, TTHR: 35, TCOA: 35})
	own := State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 100}}
	intruder := State{Pos: geometry.Vector3{Y: 3000}, Vel: geometry.Vector3{Y: -100}}
	radii := w.effectiveRadii(own, intruder)
	if radii.Horizontal <= w.thresholds.DMOD {
		t.Errorf("expected tau-expanded radius beyond DMOD, got %v", radii.Horizontal)
	}
}
