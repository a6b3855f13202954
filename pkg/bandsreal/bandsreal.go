// Package bandsreal implements the real-band assembler (C6): per-
// dimension composition of integer-band search results into real-
// valued green/red intervals, region monotonicity across severity
// levels, and the recovery-band search.
package bandsreal

import (
	"math"
	"sort"

	"github.com/airspace-systems/daidalus-go/pkg/bandsint"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

// Interval is a closed real interval [Lo, Hi] in the dimension's native
// unit (radians for direction, m/s for speed, m for altitude).
type Interval struct {
	Lo, Hi float64
}

// ToReal converts an integer step interval to a real interval around
// ownValue, at the given step size. The result is not wrapped; callers
// working in a modulus dimension (direction) must call WrapModulus.
func ToReal(iv bandsint.Integerval, step, ownValue float64) Interval {
	return Interval{Lo: ownValue + float64(iv.Lo)*step, Hi: ownValue + float64(iv.Hi)*step}
}

// WrapModulus splits an interval that crosses a circular modulus
// boundary (2π for direction) into one or two intervals within
// [0, modulus). modulus == 0 means "no wrap"; the interval is returned
// unchanged.
func WrapModulus(iv Interval, modulus float64) []Interval {
	if modulus <= 0 {
		return []Interval{iv}
	}
	lo := math.Mod(iv.Lo, modulus)
	if lo < 0 {
		lo += modulus
	}
	span := iv.Hi - iv.Lo
	if span >= modulus {
		return []Interval{{Lo: 0, Hi: modulus}}
	}
	hi := lo + span
	if hi <= modulus {
		return []Interval{{Lo: lo, Hi: hi}}
	}
	return []Interval{{Lo: lo, Hi: modulus}, {Lo: 0, Hi: hi - modulus}}
}

// Set is a disjoint, sorted collection of green intervals.
type Set []Interval

// Normalize sorts and merges overlapping/adjacent intervals.
func (s Set) Normalize() Set {
	if len(s) == 0 {
		return nil
	}
	sorted := append(Set(nil), s...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })
	out := Set{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Intersect returns the intersection of two normalized interval sets.
func Intersect(a, b Set) Set {
	a, b = a.Normalize(), b.Normalize()
	var out Set
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := math.Max(a[i].Lo, b[j].Lo)
		hi := math.Min(a[i].Hi, b[j].Hi)
		if lo <= hi {
			out = append(out, Interval{Lo: lo, Hi: hi})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else {
			j++
		}
	}
	return out
}

// IntersectAll folds Intersect across multiple sets (one per traffic
// aircraft at the same severity level), starting from universe when
// sets is empty (no traffic at this level constrains nothing).
func IntersectAll(universe Set, sets []Set) Set {
	acc := universe
	for _, s := range sets {
		acc = Intersect(acc, s)
	}
	return acc
}

// Complement returns the red intervals of s within [lo, hi].
func Complement(s Set, lo, hi float64) Set {
	s = s.Normalize()
	var out Set
	cursor := lo
	for _, iv := range s {
		if iv.Lo > cursor {
			out = append(out, Interval{Lo: cursor, Hi: iv.Lo})
		}
		if iv.Hi > cursor {
			cursor = iv.Hi
		}
	}
	if cursor < hi {
		out = append(out, Interval{Lo: cursor, Hi: hi})
	}
	return out
}

// RegionBands holds, per severity region (most to least severe order
// supplied by the caller), the green set computed before monotonicity
// is applied.
type RegionBands struct {
	Region params.Region
	Green  Set
}

// ComposeMonotone applies spec.md §4.6 step 4: processing regions from
// most to least severe, each region's green set is intersected with
// the (already-composed) green sets of all strictly more severe
// regions, preserving invariant (iii)'s nesting.
func ComposeMonotone(regions []RegionBands) []RegionBands {
	out := make([]RegionBands, len(regions))
	var cumulative Set
	first := true
	for i, rb := range regions {
		if first {
			cumulative = rb.Green.Normalize()
			first = false
		} else {
			cumulative = Intersect(cumulative, rb.Green)
		}
		out[i] = RegionBands{Region: rb.Region, Green: cumulative}
	}
	return out
}

// RecoveryResult records the outcome of a recovery search for one
// dimension (spec.md §4.6).
type RecoveryResult struct {
	Found               bool
	RecoveryTime        float64
	NFactor             int
	HorizontalRadius     float64
	VerticalRadius       float64
}

// ConflictFreeFrom evaluates, for a candidate shrunk-volume radii pair
// and a candidate pivot time, whether every traffic aircraft is
// conflict-free when the detector uses that volume from pivot onward.
// Callers (the façade/core) supply this by closing over the traffic
// list and detector.
type ConflictFreeFrom func(horizontalRadius, verticalRadius, pivot float64) bool

// Search implements the shrinking-volume recovery search: iterating
// n = 0, 1, 2, … with radii shrunk by f = 1-ca_factor each step (never
// below the NMAC envelope), bisecting for the smallest pivot in
// [0, lookaheadTime] at which evalFn reports conflict-free, to 0.5s
// resolution, then adding recoveryStabilityTime. Returns the first
// success. The search stops at the first n whose floor bottoms out at
// the NMAC envelope without success; it does so whether caEnabled is
// true or false, so caEnabled does not change the result.
func Search(minHorizontal, minVertical, nmacHorizontal, nmacVertical, caFactor, lookaheadTime, recoveryStabilityTime float64, caEnabled bool, evalFn ConflictFreeFrom) RecoveryResult {
	f := 1 - caFactor
	const maxIterations = 50
	for n := 0; n < maxIterations; n++ {
		shrink := math.Pow(f, float64(n))
		h := math.Max(minHorizontal*shrink, nmacHorizontal)
		v := math.Max(minVertical*shrink, nmacVertical)
		pivot, found := bisectPivot(lookaheadTime, func(p float64) bool { return evalFn(h, v, p) })
		if found {
			return RecoveryResult{
				Found:            true,
				RecoveryTime:     pivot + recoveryStabilityTime,
				NFactor:          n,
				HorizontalRadius: h,
				VerticalRadius:   v,
			}
		}
		atNMAC := h <= nmacHorizontal && v <= nmacVertical
		if atNMAC && !caEnabled {
			return RecoveryResult{}
		}
		if atNMAC {
			return RecoveryResult{}
		}
	}
	return RecoveryResult{}
}

// bisectPivot finds the smallest pivot in [0, lookaheadTime] for which
// conflictFree(pivot) holds, to 0.5s resolution, returning ok=false if
// conflictFree(lookaheadTime) itself fails.
func bisectPivot(lookaheadTime float64, conflictFree func(float64) bool) (float64, bool) {
	if !conflictFree(lookaheadTime) {
		return 0, false
	}
	if conflictFree(0) {
		return 0, true
	}
	lo, hi := 0.0, lookaheadTime
	for hi-lo > 0.5 {
		mid := (lo + hi) / 2
		if conflictFree(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}
