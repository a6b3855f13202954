package criteria

import (
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
)

func TestEpsilonHSign(t *testing.T) {
	relPos := geometry.Vector2{X: 0, Y: 1000}
	relVel := geometry.Vector2{X: 10, Y: 0}
	got := EpsilonH(relPos, relVel, "own", "intruder")
	if got != Left && got != Right {
		t.Fatalf("unexpected sign %v", got)
	}
}

func TestEpsilonHTieBreakIsDeterministic(t *testing.T) {
	zero := geometry.Vector2{}
	a := EpsilonH(zero, zero, "alpha", "bravo")
	b := EpsilonH(zero, zero, "alpha", "bravo")
	if a != b {
		t.Fatal("tie-break must be deterministic for the same id pair")
	}
	if EpsilonH(zero, zero, "alpha", "bravo") == EpsilonH(zero, zero, "bravo", "alpha") {
		t.Fatal("swapping ids should swap the tie-break sign")
	}
}

func TestHorizontalNewRepulsive(t *testing.T) {
	relPos := geometry.Vector2{X: 0, Y: 1000}
	vi := geometry.Vector2{Y: -50}
	awayFromIntruder := geometry.Vector2{X: 50, Y: 0}
	towardIntruder := geometry.Vector2{X: -50, Y: 0}
	eh := EpsilonH(relPos, vi.Sub(geometry.Vector2{}), "own", "intruder")
	if !HorizontalNewRepulsive(relPos, awayFromIntruder, vi, eh) && !HorizontalNewRepulsive(relPos, towardIntruder, vi, eh) {
		t.Fatal("expected at least one of the two candidate turns to be repulsive")
	}
}
