// Package hysteresis implements the hysteresis store (C8): per-intruder
// M-of-N alert/DTA smoothing plus persistence, and per-dimension bands
// (resolution/preferred-direction) persistence, all keyed and evicted
// per spec.md §3's Hysteresis Datum.
package hysteresis

import (
	"math"
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
)

// Sample is one raw reading in an M-of-N history buffer.
type Sample struct {
	Time  time.Time
	Level int
}

// AlertDatum is the M-of-N + persistence state for one intruder's alert
// level or DTA-inside flag (spec.md §4.8: "DTA hysteresis uses the same
// M-of-N shape").
type AlertDatum struct {
	history      []Sample
	n, m         int
	lastReported int
	dropStart    *time.Time
}

// NewAlertDatum returns a fresh datum configured for an N-sample buffer
// requiring M occurrences to report a level.
func NewAlertDatum(n, m int) *AlertDatum {
	if n < 1 {
		n = 1
	}
	if m < 1 {
		m = 1
	}
	return &AlertDatum{n: n, m: m}
}

// Update pushes a new raw sample and returns the hysteresis-smoothed,
// persistence-extended reported level (spec.md §4.8/§9 P7).
func (d *AlertDatum) Update(now time.Time, raw int, hysteresisTimeSeconds, persistenceTimeSeconds float64) int {
	d.history = append(d.history, Sample{Time: now, Level: raw})
	if len(d.history) > d.n {
		d.history = d.history[len(d.history)-d.n:]
	}
	if len(d.history) == 1 {
		d.lastReported = raw
		return raw
	}

	cutoff := now.Add(-time.Duration(hysteresisTimeSeconds * float64(time.Second)))
	counts := map[int]int{}
	for _, s := range d.history {
		if !s.Time.Before(cutoff) {
			counts[s.Level]++
		}
	}
	smoothed := 0
	for lvl, c := range counts {
		if c >= d.m && lvl > smoothed {
			smoothed = lvl
		}
	}

	if smoothed >= d.lastReported {
		d.lastReported = smoothed
		d.dropStart = nil
		return d.lastReported
	}
	if d.dropStart == nil {
		t := now
		d.dropStart = &t
	}
	if now.Sub(*d.dropStart).Seconds() < persistenceTimeSeconds {
		return d.lastReported
	}
	d.lastReported = smoothed
	d.dropStart = nil
	return d.lastReported
}

// LastReportedLevel returns the level most recently returned by Update,
// and false if Update has never been called (spec.md §4.7's
// early-alerting-time hysteresis check: whether the candidate level
// matches what was already being reported before this cycle's sample).
func (d *AlertDatum) LastReportedLevel() (int, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	return d.lastReported, true
}

// BandsDatum is the per-dimension resolution/preferred-direction
// persistence state (spec.md §4.8).
type BandsDatum struct {
	hasPrev             bool
	prevLow, prevUp     float64
	prevPreferredDir    float64
}

// Carry reports whether the previously-stored resolution should be
// reused instead of recomputing: the corrective region must still be
// saturated, and the prior resolution must lie within a currently-green
// interval no farther than persistencePreferred from the current
// ownship value (spec.md §9 Open Question (c): "same sign and value
// within persistence_preferred_*", replicated here as nesting inside
// the fresh green interval plus the same distance bound).
func (d *BandsDatum) Carry(saturated bool, currentGreen bandsreal.Set, ownValue, persistencePreferred float64) (low, up, preferredDir float64, ok bool) {
	if !d.hasPrev || !saturated {
		return 0, 0, 0, false
	}
	if math.Abs(ownValue-d.prevPreferredDir) > persistencePreferred {
		return 0, 0, 0, false
	}
	for _, iv := range currentGreen {
		if d.prevLow >= iv.Lo && d.prevUp <= iv.Hi {
			return d.prevLow, d.prevUp, d.prevPreferredDir, true
		}
	}
	return 0, 0, 0, false
}

// Store records a freshly computed resolution for future Carry calls.
func (d *BandsDatum) Store(low, up, preferredDir float64) {
	d.hasPrev = true
	d.prevLow, d.prevUp, d.prevPreferredDir = low, up, preferredDir
}

// Store is the full hysteresis store: per-intruder alert and DTA
// datums, and per-dimension bands datums, evicted when an intruder is
// removed or the parameter block changes (spec.md §3's Hysteresis
// Datum lifetime).
type Store struct {
	alerts map[string]*AlertDatum
	dta    map[string]*AlertDatum
	bands  map[string]*BandsDatum
}

// NewStore returns an empty hysteresis store.
func NewStore() *Store {
	return &Store{
		alerts: map[string]*AlertDatum{},
		dta:    map[string]*AlertDatum{},
		bands:  map[string]*BandsDatum{},
	}
}

// AlertDatumFor returns (creating if necessary) the alert M-of-N datum
// for intruderID.
func (s *Store) AlertDatumFor(intruderID string, n, m int) *AlertDatum {
	d, ok := s.alerts[intruderID]
	if !ok {
		d = NewAlertDatum(n, m)
		s.alerts[intruderID] = d
	}
	return d
}

// DTADatumFor returns (creating if necessary) the DTA-inside M-of-N
// datum for intruderID.
func (s *Store) DTADatumFor(intruderID string, n, m int) *AlertDatum {
	d, ok := s.dta[intruderID]
	if !ok {
		d = NewAlertDatum(n, m)
		s.dta[intruderID] = d
	}
	return d
}

// BandsDatumFor returns (creating if necessary) the bands-persistence
// datum for the given dimension key ("hdir", "hs", "vs", "alt").
func (s *Store) BandsDatumFor(dimension string) *BandsDatum {
	d, ok := s.bands[dimension]
	if !ok {
		d = &BandsDatum{}
		s.bands[dimension] = d
	}
	return d
}

// EvictIntruder removes an intruder's alert and DTA datums, called when
// the intruder is removed from the core's traffic list.
func (s *Store) EvictIntruder(intruderID string) {
	delete(s.alerts, intruderID)
	delete(s.dta, intruderID)
}

// Reset clears every datum, called when the parameter block changes in
// a way that invalidates prior hysteresis state (spec.md §3: "evicted
// ... when parameters change").
func (s *Store) Reset() {
	s.alerts = map[string]*AlertDatum{}
	s.dta = map[string]*AlertDatum{}
	s.bands = map[string]*BandsDatum{}
}
