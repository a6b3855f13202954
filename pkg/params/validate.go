package params

import "math"

// Validate checks the whole parameter block against spec.md §3's
// recognised-option constraints, in the same single-pass, first-error
// style as the teacher's SimulationConfig.Validate (config.go).
func (p *Parameters) Validate() error {
	if p.LookaheadTime <= 0 {
		return &ParameterError{Key: "lookahead_time", Message: "must be positive"}
	}
	if p.LeftHdir < 0 || p.LeftHdir > math.Pi || p.RightHdir < 0 || p.RightHdir > math.Pi {
		return &ParameterError{Key: "left_hdir/right_hdir", Message: "must be within [0, pi]"}
	}
	if p.MinHS < 0 || p.MaxHS < 0 || p.MinHS > p.MaxHS {
		return &ParameterError{Key: "min_hs/max_hs", Message: "must satisfy 0 <= min_hs <= max_hs"}
	}
	if p.MinVS > p.MaxVS {
		return &ParameterError{Key: "min_vs/max_vs", Message: "min_vs must not exceed max_vs"}
	}
	if p.MinAlt < 0 || p.MinAlt >= p.MaxAlt {
		return &ParameterError{Key: "min_alt/max_alt", Message: "must satisfy 0 <= min_alt < max_alt"}
	}
	for _, step := range []struct {
		name string
		val  float64
	}{
		{"step_hdir", p.StepHdir}, {"step_hs", p.StepHS}, {"step_vs", p.StepVS}, {"step_alt", p.StepAlt},
	} {
		if step.val <= 0 {
			return &ParameterError{Key: step.name, Message: "must be positive"}
		}
	}
	if p.TurnRate != 0 && p.BankAngleSet {
		return &ParameterError{Key: "turn_rate/bank_angle", Message: "turn_rate and bank_angle are mutually exclusive"}
	}
	if p.HorizontalAccel < 0 || p.VerticalAccel < 0 {
		return &ParameterError{Key: "horizontal_accel/vertical_accel", Message: "must be non-negative"}
	}
	if p.MinHorizontalRecovery < 0 || p.MinVerticalRecovery < 0 {
		return &ParameterError{Key: "min_horizontal_recovery/min_vertical_recovery", Message: "must be non-negative"}
	}
	if p.RecoveryStabilityTime < 0 {
		return &ParameterError{Key: "recovery_stability_time", Message: "must be non-negative"}
	}
	if p.CAFactor <= 0 || p.CAFactor > 1 {
		return &ParameterError{Key: "ca_factor", Message: "must be within (0, 1]"}
	}
	if p.HorizontalNMAC <= 0 || p.VerticalNMAC <= 0 {
		return &ParameterError{Key: "horizontal_nmac/vertical_nmac", Message: "must be positive"}
	}
	if p.HysteresisTime < 0 || p.PersistenceTime < 0 {
		return &ParameterError{Key: "hysteresis_time/persistence_time", Message: "must be non-negative"}
	}
	if p.AlertingM <= 0 || p.AlertingN <= 0 || p.AlertingM > p.AlertingN {
		return &ParameterError{Key: "alerting_m/alerting_n", Message: "must satisfy 0 < alerting_m <= alerting_n"}
	}
	if p.ContourThreshold < 0 || p.ContourThreshold > math.Pi {
		return &ParameterError{Key: "contour_thr", Message: "must be within [0, pi]"}
	}
	if p.DTAMode < -1 || p.DTAMode > 1 {
		return &ParameterError{Key: "dta_mode", Message: "must be one of -1, 0, +1"}
	}
	if p.DTARadius < 0 || p.DTAHeight < 0 {
		return &ParameterError{Key: "dta_radius/dta_height", Message: "must be non-negative"}
	}
	switch p.CorrectiveRegion {
	case RegionFar, RegionMid, RegionNear:
	default:
		return &ParameterError{Key: "corrective_region", Message: "must be one of FAR, MID, NEAR"}
	}
	if len(p.Alerters) == 0 {
		return &ParameterError{Key: "alerters", Message: "at least one alerter must be configured"}
	}
	for _, a := range p.Alerters {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SetLookaheadTime validates and applies a new lookahead time, rejecting
// (and logging) an invalid value while leaving p unchanged, per spec.md
// §7: "Parameter errors ... reject the mutation (keeping the prior
// value)".
func (p *Parameters) SetLookaheadTime(seconds float64) error {
	prior := p.LookaheadTime
	p.LookaheadTime = seconds
	if err := p.Validate(); err != nil {
		p.LookaheadTime = prior
		if p.Log != nil {
			p.Log.ParameterRejected(err.(*ParameterError))
		}
		return err
	}
	return nil
}

// SetMinMaxRecovery validates and applies new recovery radii, with the
// same reject-and-keep-prior behavior as SetLookaheadTime.
func (p *Parameters) SetMinMaxRecovery(horizontal, vertical float64) error {
	priorH, priorV := p.MinHorizontalRecovery, p.MinVerticalRecovery
	p.MinHorizontalRecovery, p.MinVerticalRecovery = horizontal, vertical
	if err := p.Validate(); err != nil {
		p.MinHorizontalRecovery, p.MinVerticalRecovery = priorH, priorV
		if p.Log != nil {
			p.Log.ParameterRejected(err.(*ParameterError))
		}
		return err
	}
	return nil
}
