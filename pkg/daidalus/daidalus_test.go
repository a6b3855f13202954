package daidalus

import (
	"math"
	"testing"
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/params"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
)

func TestBandsNoTrafficIsAllGreen(t *testing.T) {
	d := New()
	now := time.Now()
	own := tstate.NewEuclidean("own", geometry.Vector3{}, geometry.Vector3{Y: 50}, now)
	d.SetOwnship(own)

	ranges := d.Bands(kinematics.DimHorizontalSpeed)
	if len(ranges) != 1 || ranges[0].Region != params.RegionNone {
		t.Fatalf("expected a single NONE range with no traffic, got %+v", ranges)
	}
}

func TestAddTrafficBeforeOwnshipIsRejected(t *testing.T) {
	d := New()
	now := time.Now()
	traffic := tstate.NewEuclidean("tfc", geometry.Vector3{X: 1000}, geometry.Vector3{}, now)
	idx := d.AddTraffic(traffic)
	if idx != 0 {
		t.Fatalf("expected add_traffic before ownship to be rejected, got index %d", idx)
	}
	entries := d.Log()
	if len(entries) == 0 {
		t.Fatal("expected a logged state error")
	}
}

func TestBandsDirectionHasConflictBandWithHeadOnTraffic(t *testing.T) {
	d := New()
	now := time.Now()
	own := tstate.NewEuclidean("own", geometry.Vector3{}, geometry.Vector3{Y: 50}, now)
	d.SetOwnship(own)
	traffic := tstate.NewEuclidean("tfc", geometry.Vector3{Y: 2000}, geometry.Vector3{Y: -50}, now)
	d.AddTraffic(traffic)

	ranges := d.Bands(kinematics.DimDirection)
	if len(ranges) == 0 {
		t.Fatal("expected at least one range")
	}
	sawNonNone := false
	for _, r := range ranges {
		if r.Region != params.RegionNone {
			sawNonNone = true
		}
	}
	if !sawNonNone {
		t.Error("expected head-on traffic to produce at least one non-NONE direction range")
	}
}

func TestLastTimeToManeuverNaNWhenNoConflict(t *testing.T) {
	d := New()
	now := time.Now()
	own := tstate.NewEuclidean("own", geometry.Vector3{}, geometry.Vector3{Y: 50}, now)
	d.SetOwnship(own)
	traffic := tstate.NewEuclidean("tfc", geometry.Vector3{X: 100000}, geometry.Vector3{X: 50}, now)
	d.AddTraffic(traffic)

	got := d.LastTimeToManeuver(1)
	if !math.IsNaN(got) {
		t.Errorf("expected NaN for non-conflicting traffic, got %v", got)
	}
}
