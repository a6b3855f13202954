// Package params implements the DAIDALUS parameter block: the invariant
// configuration carried across a refresh (spec.md §3), its validation
// rules, and the bespoke text file format described in spec.md §6.
package params

import (
	"math"

	"github.com/airspace-systems/daidalus-go/pkg/uncertainty"
)

// Sentinel used by the relative-band override options: a negative value
// means "extend to the extremum", 0 means "override disabled".
const RelativeToExtremum = -1.0

// Parameters is the full, mutable-only-through-Set* configuration block.
// Every field here is named directly after a spec.md §3 option; the
// parameter-file parser maps keys to fields through the numericFields/
// intFields/boolFields tables in fileformat.go, after the
// deprecated-alias rewrite in aliases.go.
type Parameters struct {
	LookaheadTime float64 // s

	LeftHdir  float64 // rad, [0, pi]
	RightHdir float64 // rad, [0, pi]

	MinHS float64 // m/s, >= 0
	MaxHS float64 // m/s, >= 0

	MinVS float64 // m/s
	MaxVS float64 // m/s

	MinAlt float64 // m, >= 0
	MaxAlt float64 // m, > MinAlt

	// Relative-band overrides: RelativeToExtremum ("to extremum"), 0
	// (disabled), or a positive magnitude relative to the current value.
	BelowRelativeHS, AboveRelativeHS   float64
	BelowRelativeVS, AboveRelativeVS   float64
	BelowRelativeAlt, AboveRelativeAlt float64

	StepHdir float64
	StepHS   float64
	StepVS   float64
	StepAlt  float64

	HorizontalAccel float64 // m/s^2
	VerticalAccel   float64 // m/s^2
	// At most one of TurnRate/BankAngle is in effect; BankAngleSet records
	// whether bank_angle was configured so Validate can reject a nonzero
	// TurnRate together with it (spec.md §3: "turn_rate XOR bank_angle").
	TurnRate     float64 // rad/s
	BankAngle    float64 // rad
	BankAngleSet bool
	VerticalRate float64 // m/s

	MinHorizontalRecovery  float64 // m; 0 => use TCAS sensitivity table
	MinVerticalRecovery    float64 // m; 0 => use TCAS sensitivity table
	RecoveryStabilityTime  float64 // s
	RecoverHdir            bool
	RecoverHS              bool
	RecoverVS              bool
	RecoverAlt             bool

	CAEnabled   bool
	CAFactor    float64 // (0, 1]
	HorizontalNMAC float64 // m
	VerticalNMAC   float64 // m

	HysteresisTime  float64 // s
	PersistenceTime float64 // s
	BandsPersistence bool
	PersistencePreferredHdir float64
	PersistencePreferredHS   float64
	PersistencePreferredVS   float64
	PersistencePreferredAlt  float64
	AlertingM int
	AlertingN int

	ConflictCrit bool
	RecoveryCrit bool

	ZScoreHorizontalPosition float64
	ZScoreHorizontalVelocityMin float64
	ZScoreHorizontalVelocityMax float64
	ZScoreHorizontalVelocityDistanceToRamp float64
	ZScoreVerticalPosition float64
	ZScoreVerticalSpeed    float64

	ContourThreshold float64 // rad, [0, pi]

	DTAMode   int // -1, 0, +1
	DTALat    float64
	DTALon    float64
	DTARadius float64 // m
	DTAHeight float64 // m
	DTAAlerter int

	OwnshipCentricAlerting bool
	CorrectiveRegion       Region

	Alerters []Alerter

	// Log accumulates rejected-mutation diagnostics (ParameterError) for
	// the next report, per spec.md §7: a rejected mutation keeps the
	// prior value and is surfaced through the error log rather than a
	// panic/exception.
	Log *ErrorLog
}

// Default returns the nominal DAIDALUS WC_SC_228-style configuration: the
// values used in spec.md §8 Scenario 1 ("nominal corrective envelope").
func Default() *Parameters {
	p := &Parameters{
		LookaheadTime: 180,
		LeftHdir:      math.Pi,
		RightHdir:     math.Pi,
		MinHS:         0,
		MaxHS:         463, // ~900 kt in m/s
		MinVS:         -30.5,
		MaxVS:         30.5,
		MinAlt:        0,
		MaxAlt:        15240, // 50,000 ft

		AboveRelativeHS:  RelativeToExtremum,
		BelowRelativeHS:  RelativeToExtremum,
		AboveRelativeVS:  RelativeToExtremum,
		BelowRelativeVS:  RelativeToExtremum,
		AboveRelativeAlt: 300,
		BelowRelativeAlt: 300,

		StepHdir: 1 * math.Pi / 180,
		StepHS:   1 * 0.5144,
		StepVS:   100 * 0.00508,
		StepAlt:  100 * 0.3048,

		HorizontalAccel: 2.0,
		VerticalAccel:   3.0,
		TurnRate:        3 * math.Pi / 180,
		VerticalRate:    10 * 0.3048,

		MinHorizontalRecovery: 0.66 * 1852,
		MinVerticalRecovery:   450 * 0.3048,
		RecoveryStabilityTime: 2,
		RecoverHdir:           true,
		RecoverHS:             true,
		RecoverVS:             true,
		RecoverAlt:            true,

		CAEnabled:      true,
		CAFactor:       0.2,
		HorizontalNMAC: 500 * 0.3048,
		VerticalNMAC:   100 * 0.3048,

		HysteresisTime:           5,
		PersistenceTime:          10,
		BandsPersistence:         true,
		PersistencePreferredHdir: 15 * math.Pi / 180,
		PersistencePreferredHS:   10 * 0.5144,
		PersistencePreferredVS:   2 * 0.00508,
		PersistencePreferredAlt:  100 * 0.3048,
		AlertingM:                1,
		AlertingN:                1,

		ConflictCrit: false,
		RecoveryCrit: false,

		ZScoreHorizontalPosition:               1.644854,
		ZScoreHorizontalVelocityMin:            0,
		ZScoreHorizontalVelocityMax:            1.644854,
		ZScoreHorizontalVelocityDistanceToRamp: 500,
		ZScoreVerticalPosition:                 1.644854,
		ZScoreVerticalSpeed:                    1.644854,

		ContourThreshold: math.Pi,

		DTAMode:    -1,
		DTAAlerter: 0,

		OwnshipCentricAlerting: true,
		CorrectiveRegion:       RegionMid,

		Log: NewErrorLog(),
	}
	p.Alerters = []Alerter{DefaultAlerter()}
	return p
}

// Clone returns a deep-enough copy of p suitable for "tentative mutation,
// validate, commit-or-reject" call sites (spec.md §7: a rejected mutation
// keeps the prior value).
func (p *Parameters) Clone() *Parameters {
	cp := *p
	cp.Alerters = make([]Alerter, len(p.Alerters))
	for i, a := range p.Alerters {
		cp.Alerters[i] = a.Clone()
	}
	cp.Log = p.Log
	return &cp
}

// ZScores collects the sensor-uncertainty-mitigation multipliers into the
// form pkg/uncertainty's inflation helpers consume.
func (p *Parameters) ZScores() uncertainty.ZScores {
	return uncertainty.ZScores{
		HorizontalPosition:               p.ZScoreHorizontalPosition,
		HorizontalVelocityMin:            p.ZScoreHorizontalVelocityMin,
		HorizontalVelocityMax:            p.ZScoreHorizontalVelocityMax,
		HorizontalVelocityDistanceToRamp: p.ZScoreHorizontalVelocityDistanceToRamp,
		VerticalPosition:                 p.ZScoreVerticalPosition,
		VerticalSpeed:                    p.ZScoreVerticalSpeed,
	}
}
