package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
)

// aircraftYAML is one aircraft entry in a scenario file: either a
// geodetic fix (lat/lon/alt) or a local Cartesian one (x/y/z), plus
// track/speed/vertical-speed in display units matching spec.md §6's
// file-format conventions (degrees, knots, feet-per-minute).
type aircraftYAML struct {
	ID           string   `yaml:"id"`
	LatDeg       *float64 `yaml:"lat_deg"`
	LonDeg       *float64 `yaml:"lon_deg"`
	AltFt        *float64 `yaml:"alt_ft"`
	XM           *float64 `yaml:"x_m"`
	YM           *float64 `yaml:"y_m"`
	ZM           *float64 `yaml:"z_m"`
	TrackDeg     float64  `yaml:"track_deg"`
	SpeedKt      float64  `yaml:"speed_kt"`
	VSFpm        float64  `yaml:"vs_fpm"`
	AlerterIndex int      `yaml:"alerter_index"`
}

// scenarioYAML is the top-level run-configuration file daidalusctl run
// consumes: an ownship, its traffic, and the path to a parameter file
// (spec.md §6's bespoke key=value format) to load, if any.
type scenarioYAML struct {
	Ownship    aircraftYAML   `yaml:"ownship"`
	Traffic    []aircraftYAML `yaml:"traffic"`
	ParamsFile string         `yaml:"params_file"`
}

func loadScenario(path string) (*scenarioYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var s scenarioYAML
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return &s, nil
}

func ktToMS(kt float64) float64  { return kt * 0.514444444444 }
func fpmToMS(fpm float64) float64 { return fpm / 196.85039370079 }
func ftToM(ft float64) float64    { return ft * 0.3048 }
func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

func (a aircraftYAML) toAircraft(now time.Time) (tstate.Aircraft, error) {
	trackRad := degToRad(a.TrackDeg)
	speedMS := ktToMS(a.SpeedKt)
	vsMS := fpmToMS(a.VSFpm)

	var ac tstate.Aircraft
	switch {
	case a.LatDeg != nil && a.LonDeg != nil:
		altFt := 0.0
		if a.AltFt != nil {
			altFt = *a.AltFt
		}
		pos := geometry.LatLonAlt{LatDeg: *a.LatDeg, LonDeg: *a.LonDeg, Alt: ftToM(altFt)}
		ac = tstate.NewGeodetic(a.ID, pos, trackRad, speedMS, vsMS, now)
	case a.XM != nil && a.YM != nil:
		z := 0.0
		if a.ZM != nil {
			z = *a.ZM
		}
		pos := geometry.Vector3{X: *a.XM, Y: *a.YM, Z: z}
		vel := geometry.Vector3{X: speedMS * math.Sin(trackRad), Y: speedMS * math.Cos(trackRad), Z: vsMS}
		ac = tstate.NewEuclidean(a.ID, pos, vel, now)
	default:
		return tstate.Aircraft{}, fmt.Errorf("aircraft %q: must set either lat_deg/lon_deg or x_m/y_m", a.ID)
	}
	return ac.WithAlerterIndex(a.AlerterIndex), nil
}
