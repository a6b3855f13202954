package bandsint

import "testing"

func TestBandsCombineMergesAdjacent(t *testing.T) {
	left := []Integerval{{Lo: 0, Hi: 2}}  // becomes [-2, 0] after negate/reverse
	right := []Integerval{{Lo: 0, Hi: 3}} // shares endpoint 0 with negated left
	got := BandsCombine(left, right)
	if len(got) != 1 || got[0].Lo != -2 || got[0].Hi != 3 {
		t.Fatalf("expected merged [-2,3], got %+v", got)
	}
}

func TestBandsCombineKeepsDisjointIntervals(t *testing.T) {
	left := []Integerval{{Lo: 5, Hi: 8}}
	right := []Integerval{{Lo: 2, Hi: 3}}
	got := BandsCombine(left, right)
	if len(got) != 2 {
		t.Fatalf("expected two disjoint intervals, got %+v", got)
	}
}

func TestMergeAdjacentSortedInput(t *testing.T) {
	got := mergeAdjacent([]Integerval{{0, 2}, {3, 5}, {8, 9}})
	if len(got) != 2 || got[0] != (Integerval{0, 5}) || got[1] != (Integerval{8, 9}) {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}
