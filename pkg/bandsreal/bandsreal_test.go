package bandsreal

import (
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/params"
)

func TestIntersectDisjointYieldsEmpty(t *testing.T) {
	a := Set{{Lo: 0, Hi: 1}}
	b := Set{{Lo: 2, Hi: 3}}
	got := Intersect(a, b)
	if len(got) != 0 {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
}

func TestIntersectOverlapping(t *testing.T) {
	a := Set{{Lo: 0, Hi: 5}}
	b := Set{{Lo: 3, Hi: 8}}
	got := Intersect(a, b)
	if len(got) != 1 || got[0] != (Interval{3, 5}) {
		t.Fatalf("expected [3,5], got %+v", got)
	}
}

func TestComposeMonotoneNestsSeverity(t *testing.T) {
	regions := []RegionBands{
		{Region: params.RegionNear, Green: Set{{Lo: 0, Hi: 10}}},
		{Region: params.RegionMid, Green: Set{{Lo: 2, Hi: 8}}},
		{Region: params.RegionFar, Green: Set{{Lo: 0, Hi: 20}}},
	}
	out := ComposeMonotone(regions)
	if out[2].Green[0] != (Interval{2, 8}) {
		t.Fatalf("FAR green should be intersected with more severe regions, got %+v", out[2].Green)
	}
}

func TestSearchFindsEarliestPivot(t *testing.T) {
	eval := func(h, v, pivot float64) bool { return pivot >= 20 }
	result := Search(1000, 150, 10, 10, 0.2, 180, 2, true, eval)
	if !result.Found {
		t.Fatal("expected recovery search to find a pivot")
	}
	if result.RecoveryTime < 22 || result.RecoveryTime > 23 {
		t.Errorf("expected recovery time near 22s, got %v", result.RecoveryTime)
	}
}

func TestSearchFailsWhenNeverConflictFree(t *testing.T) {
	eval := func(h, v, pivot float64) bool { return false }
	result := Search(1000, 150, 10, 10, 0.2, 180, 2, true, eval)
	if result.Found {
		t.Fatal("expected no recovery when detector never clears")
	}
}
