package daidalus

import (
	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
)

// insideDTA reports whether the ownship currently lies within the
// configured DTA cylinder (lat/lon center, radius, and a height ceiling
// measured from the ground), per SPEC_FULL.md §D.4. Geodetic ownship
// state is required since the DTA volume is specified in lat/lon; a
// Cartesian-only ownship never triggers it.
func (f *Daidalus) insideDTA() bool {
	p := f.core.Params
	if p.DTARadius <= 0 || !f.core.Ownship.IsGeodetic || f.core.projection == nil {
		return false
	}
	own := f.ownState()
	center := f.core.projection.Project(geometry.LatLonAlt{LatDeg: p.DTALat, LonDeg: p.DTALon})
	horiz := own.Pos.Vect2().Sub(center.Vect2()).Norm()
	return horiz <= p.DTARadius && own.Pos.Z <= p.DTAHeight
}

// applyDTALogic resolves the alerter index to actually use for traffic,
// implementing the three-way DTA mode switch: mode -1 ("general") never
// substitutes; modes 0 and +1 ("general with alternate alerter" and
// "special/active") both substitute DTAAlerter while the ownship is
// inside the DTA cylinder, smoothed through the same per-intruder M-of-N
// hysteresis the alerting engine uses (spec.md §4.8: "DTA hysteresis
// uses the same M-of-N shape"). Mode +1 additionally disables vertical
// recovery while active; see recoverEnabled.
func (f *Daidalus) applyDTALogic(traffic tstate.Aircraft) int {
	p := f.core.Params
	if p.DTAMode == -1 || p.DTAAlerter <= 0 {
		return traffic.AlerterIndex
	}
	raw := 0
	if f.insideDTA() {
		raw = 1
	}
	datum := f.core.Hyst.DTADatumFor(traffic.ID, p.AlertingN, p.AlertingM)
	smoothed := datum.Update(f.core.CurrentTime, raw, p.HysteresisTime, p.PersistenceTime)
	if smoothed == 0 {
		return traffic.AlerterIndex
	}
	return p.DTAAlerter
}

// computeDTA refreshes the per-traffic DTA-resolved alerter index cache
// for the current generation; the per-intruder hysteresis datum must be
// updated exactly once per refresh, so every caller that needs the
// resolved alerter index (AlertLevel, greenSetForRegion, the façade's
// detector-resolution helpers) reads the cache instead of calling
// applyDTALogic directly.
func (f *Daidalus) computeDTA() {
	cache := make(map[string]int, len(f.core.Traffic))
	for _, traffic := range f.core.Traffic {
		cache[traffic.ID] = f.applyDTALogic(traffic)
	}
	f.dtaAlerterIndex = cache
}

// resolvedAlerterIndex returns traffic's DTA-resolved alerter index,
// computing the cache on demand if a query method is called without
// going through refresh first.
func (f *Daidalus) resolvedAlerterIndex(traffic tstate.Aircraft) int {
	if f.dtaAlerterIndex == nil {
		f.computeDTA()
	}
	if idx, ok := f.dtaAlerterIndex[traffic.ID]; ok {
		return idx
	}
	return traffic.AlerterIndex
}

// dtaVerticalRecoveryDisabled reports whether DTA mode +1 ("special/
// active") is currently suppressing vertical recovery search, per
// SPEC_FULL.md §D.4.
func (f *Daidalus) dtaVerticalRecoveryDisabled() bool {
	return f.core.Params.DTAMode > 0 && f.insideDTA()
}
