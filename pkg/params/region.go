package params

// Region is a band severity tag, ordered least to most severe (spec.md
// §3 Band Interval / GLOSSARY). UNKNOWN is a distinct, unordered value
// used when a dimension lacks enough information to classify a point
// (SPEC_FULL.md §D.5); it never compares as more or less severe than a
// real region.
type Region int

const (
	RegionUnknown Region = iota
	RegionNone
	RegionFar
	RegionMid
	RegionNear
	RegionRecovery
)

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "NONE"
	case RegionFar:
		return "FAR"
	case RegionMid:
		return "MID"
	case RegionNear:
		return "NEAR"
	case RegionRecovery:
		return "RECOVERY"
	default:
		return "UNKNOWN"
	}
}

// ParseRegion parses the parameter-file spelling of a region; used for
// both alert_<k>_region and corrective_region keys.
func ParseRegion(s string) (Region, bool) {
	switch s {
	case "NONE":
		return RegionNone, true
	case "FAR":
		return RegionFar, true
	case "MID":
		return RegionMid, true
	case "NEAR":
		return RegionNear, true
	case "RECOVERY":
		return RegionRecovery, true
	case "UNKNOWN":
		return RegionUnknown, true
	default:
		return RegionUnknown, false
	}
}

// Severity returns an integer ranking usable to compare two *conflict*
// regions (FAR < MID < NEAR); RegionNone sorts below all conflict
// regions, and RegionUnknown/RegionRecovery are not meaningfully ordered
// against conflict regions by this function — callers must not compare
// them here.
func (r Region) Severity() int {
	switch r {
	case RegionNone:
		return 0
	case RegionFar:
		return 1
	case RegionMid:
		return 2
	case RegionNear:
		return 3
	default:
		return -1
	}
}

// AtLeastAsSevereAs reports whether r is at least as severe as other,
// among the three conflict regions FAR/MID/NEAR (spec.md §3 invariant
// (iii): monotonicity in region severity).
func (r Region) AtLeastAsSevereAs(other Region) bool {
	return r.Severity() >= other.Severity()
}
