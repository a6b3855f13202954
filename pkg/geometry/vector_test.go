package geometry

import (
	"math"
	"testing"
)

func TestVector2Hat(t *testing.T) {
	v := Vector2{X: 3, Y: 4}
	h := v.Hat()
	if math.Abs(h.Norm()-1) > 1e-9 {
		t.Errorf("expected unit vector, got norm %f", h.Norm())
	}

	zero := Vector2{}.Hat()
	if zero != (Vector2{}) {
		t.Errorf("expected zero vector for zero input, got %+v", zero)
	}
}

func TestTCA2D(t *testing.T) {
	// Head-on closure: relative position 10 behind along X, closing at 2 m/s.
	relPos := Vector2{X: -10, Y: 0}
	relVel := Vector2{X: 2, Y: 0}
	tca := TCA2D(relPos, relVel)
	if math.Abs(tca-5) > 1e-9 {
		t.Errorf("expected tca=5, got %f", tca)
	}

	// Diverging motion clamps to 0.
	if got := TCA2D(Vector2{X: 10, Y: 0}, Vector2{X: 2, Y: 0}); got != 0 {
		t.Errorf("expected tca=0 for diverging motion, got %f", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Vector2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !PolygonIsCCW(square) {
		t.Fatalf("expected test square to be CCW")
	}
	if !PointInPolygon(Vector2{5, 5}, square) {
		t.Errorf("expected (5,5) inside square")
	}
	if PointInPolygon(Vector2{15, 5}, square) {
		t.Errorf("expected (15,5) outside square")
	}
}

func TestAngleDiff(t *testing.T) {
	d := AngleDiff(0.1, 2*math.Pi-0.1)
	if math.Abs(d-0.2) > 1e-9 {
		t.Errorf("expected wraparound diff 0.2, got %f", d)
	}
}

func TestMod2Pi(t *testing.T) {
	if got := Mod2Pi(-0.5); got <= 0 || got >= 2*math.Pi {
		t.Errorf("expected Mod2Pi to land in [0,2pi), got %f", got)
	}
}
