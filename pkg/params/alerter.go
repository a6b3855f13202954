package params

// AlertThreshold is one severity level within an Alerter (spec.md §3).
// Within an Alerter, levels are ordered least to most severe and their
// detection volumes nest: level i+1's conditions are strictly tighter
// than level i's.
type AlertThreshold struct {
	Detector           string // registered detector id, e.g. "cylinder" or "wcv"
	AlertingTime       float64
	EarlyAlertingTime  float64
	Region             Region
	SpreadHdir         float64 // rad; 0 disables the spread check
	SpreadHS           float64 // m/s
	SpreadVS           float64 // m/s
	SpreadAlt          float64 // m
}

// Alerter is a named, ordered list of AlertThresholds, selected per
// traffic aircraft via Aircraft.AlerterIndex (1-based; §3).
type Alerter struct {
	Name   string
	Levels []AlertThreshold
}

// Clone returns a deep copy of a.
func (a Alerter) Clone() Alerter {
	levels := make([]AlertThreshold, len(a.Levels))
	copy(levels, a.Levels)
	return Alerter{Name: a.Name, Levels: levels}
}

// Validate checks the ordering invariants of an Alerter: non-empty,
// severity non-decreasing from level to level, at least one non-NONE
// level, non-negative alerting times, and early_alerting_time (when
// set) not less than alerting_time. Alerting times are not compared
// across levels, and detection-volume nesting is not checked.
func (a Alerter) Validate() error {
	if len(a.Levels) == 0 {
		return &ParameterError{Key: "alerters." + a.Name, Message: "must have at least one level"}
	}
	haveConflict := false
	prevSeverity := -1
	for i, lvl := range a.Levels {
		if lvl.Region != RegionNone {
			haveConflict = true
		}
		sev := lvl.Region.Severity()
		if sev < prevSeverity {
			return &ParameterError{Key: "alerters." + a.Name, Message: "alert levels must be ordered least to most severe"}
		}
		prevSeverity = sev
		if lvl.AlertingTime < 0 || lvl.EarlyAlertingTime < 0 {
			return &ParameterError{Key: "alerters." + a.Name, Message: "alerting times must be non-negative"}
		}
		if lvl.EarlyAlertingTime > 0 && lvl.EarlyAlertingTime < lvl.AlertingTime {
			return &ParameterError{Key: "alerters." + a.Name, Message: "early_alerting_time must not be less than alerting_time"}
		}
		_ = i
	}
	if !haveConflict {
		return &ParameterError{Key: "alerters." + a.Name, Message: "at least one level must have a non-NONE region"}
	}
	return nil
}

// Level returns the 1-based level k (1..len(Levels)) and true, or a
// zero AlertThreshold and false if k is out of range.
func (a Alerter) Level(k int) (AlertThreshold, bool) {
	if k < 1 || k > len(a.Levels) {
		return AlertThreshold{}, false
	}
	return a.Levels[k-1], true
}

// DefaultAlerter returns the standard three-level (FAR/MID/NEAR) WC_SC_228
// alerter used when no parameter file overrides it.
func DefaultAlerter() Alerter {
	return Alerter{
		Name: "default",
		Levels: []AlertThreshold{
			{Detector: "cylinder", AlertingTime: 55, EarlyAlertingTime: 75, Region: RegionFar},
			{Detector: "cylinder", AlertingTime: 55, EarlyAlertingTime: 75, Region: RegionMid},
			{Detector: "cylinder", AlertingTime: 35, EarlyAlertingTime: 35, Region: RegionNear},
		},
	}
}

// AlerterFor selects the alerter to use for a given traffic aircraft's
// configured index (1-based), defaulting to the first alerter when the
// index is 0 or out of range (spec.md §3/§4.7).
func (p *Parameters) AlerterFor(alerterIndex int) (Alerter, bool) {
	if len(p.Alerters) == 0 {
		return Alerter{}, false
	}
	if alerterIndex < 1 || alerterIndex > len(p.Alerters) {
		return p.Alerters[0], true
	}
	return p.Alerters[alerterIndex-1], true
}
