package alerting

import (
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/detector"
	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

func TestEvaluateReturnsMostSevereMatchingLevel(t *testing.T) {
	alerter := params.DefaultAlerter()
	resolve := func(id string) (detector.Detector, error) { return detector.New(id) }
	own := detector.State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 50}}
	traffic := detector.State{Pos: geometry.Vector3{Y: 200}, Vel: geometry.Vector3{Y: -50}}
	level, region := Evaluate(alerter, own, traffic, 0, 50, 0, nil, resolve)
	if level == 0 || region == params.RegionNone {
		t.Fatalf("expected a triggered alert for closing traffic, got level=%d region=%v", level, region)
	}
}

func TestEvaluateNoAlertWhenClear(t *testing.T) {
	alerter := params.DefaultAlerter()
	resolve := func(id string) (detector.Detector, error) { return detector.New(id) }
	own := detector.State{Pos: geometry.Vector3{}, Vel: geometry.Vector3{Y: 50}}
	traffic := detector.State{Pos: geometry.Vector3{X: 50000, Y: 0}, Vel: geometry.Vector3{X: 50}}
	level, _ := Evaluate(alerter, own, traffic, 0, 50, 0, nil, resolve)
	if level != 0 {
		t.Fatalf("expected no alert for well-separated diverging traffic, got level %d", level)
	}
}
