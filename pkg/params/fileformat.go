package params

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// fileFormatVersion is written as the header line of every saved
// parameter file and accepted (without enforcing an upper bound) on
// load, per spec.md §6: "a `V-<semver>` header line identifies the
// format version."
const fileFormatVersion = "V-2.1"

// fieldSpec pairs a unitKind with the unit WriteTo renders a field
// in, so a value written and re-parsed round-trips to the identical
// float64 (spec.md §8 P3: "save then load is bit-exact").
type fieldSpec struct {
	kind unitKind
	unit string
	get  func(p *Parameters) float64
	set  func(p *Parameters, si float64)
}

var numericFields = map[string]fieldSpec{
	"lookahead_time": {kindTime, "s", func(p *Parameters) float64 { return p.LookaheadTime }, func(p *Parameters, v float64) { p.LookaheadTime = v }},

	"left_hdir":  {kindAngle, "deg", func(p *Parameters) float64 { return p.LeftHdir }, func(p *Parameters, v float64) { p.LeftHdir = v }},
	"right_hdir": {kindAngle, "deg", func(p *Parameters) float64 { return p.RightHdir }, func(p *Parameters, v float64) { p.RightHdir = v }},

	"min_hs": {kindSpeed, "kt", func(p *Parameters) float64 { return p.MinHS }, func(p *Parameters, v float64) { p.MinHS = v }},
	"max_hs": {kindSpeed, "kt", func(p *Parameters) float64 { return p.MaxHS }, func(p *Parameters, v float64) { p.MaxHS = v }},
	"min_vs": {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.MinVS }, func(p *Parameters, v float64) { p.MinVS = v }},
	"max_vs": {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.MaxVS }, func(p *Parameters, v float64) { p.MaxVS = v }},

	"min_alt": {kindLength, "ft", func(p *Parameters) float64 { return p.MinAlt }, func(p *Parameters, v float64) { p.MinAlt = v }},
	"max_alt": {kindLength, "ft", func(p *Parameters) float64 { return p.MaxAlt }, func(p *Parameters, v float64) { p.MaxAlt = v }},

	"below_relative_hs":  {kindSpeed, "kt", func(p *Parameters) float64 { return p.BelowRelativeHS }, func(p *Parameters, v float64) { p.BelowRelativeHS = v }},
	"above_relative_hs":  {kindSpeed, "kt", func(p *Parameters) float64 { return p.AboveRelativeHS }, func(p *Parameters, v float64) { p.AboveRelativeHS = v }},
	"below_relative_vs":  {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.BelowRelativeVS }, func(p *Parameters, v float64) { p.BelowRelativeVS = v }},
	"above_relative_vs":  {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.AboveRelativeVS }, func(p *Parameters, v float64) { p.AboveRelativeVS = v }},
	"below_relative_alt": {kindLength, "ft", func(p *Parameters) float64 { return p.BelowRelativeAlt }, func(p *Parameters, v float64) { p.BelowRelativeAlt = v }},
	"above_relative_alt": {kindLength, "ft", func(p *Parameters) float64 { return p.AboveRelativeAlt }, func(p *Parameters, v float64) { p.AboveRelativeAlt = v }},

	"step_hdir": {kindAngle, "deg", func(p *Parameters) float64 { return p.StepHdir }, func(p *Parameters, v float64) { p.StepHdir = v }},
	"step_hs":   {kindSpeed, "kt", func(p *Parameters) float64 { return p.StepHS }, func(p *Parameters, v float64) { p.StepHS = v }},
	"step_vs":   {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.StepVS }, func(p *Parameters, v float64) { p.StepVS = v }},
	"step_alt":  {kindLength, "ft", func(p *Parameters) float64 { return p.StepAlt }, func(p *Parameters, v float64) { p.StepAlt = v }},

	"horizontal_accel": {kindScalar, "", func(p *Parameters) float64 { return p.HorizontalAccel }, func(p *Parameters, v float64) { p.HorizontalAccel = v }},
	"vertical_accel":   {kindScalar, "", func(p *Parameters) float64 { return p.VerticalAccel }, func(p *Parameters, v float64) { p.VerticalAccel = v }},
	"turn_rate":        {kindAngle, "deg", func(p *Parameters) float64 { return p.TurnRate }, func(p *Parameters, v float64) { p.TurnRate = v; p.BankAngleSet = false }},
	"bank_angle": {kindAngle, "deg", func(p *Parameters) float64 { return p.BankAngle }, func(p *Parameters, v float64) {
		p.BankAngle = v
		p.BankAngleSet = true
	}},
	"vertical_rate": {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.VerticalRate }, func(p *Parameters, v float64) { p.VerticalRate = v }},

	"min_horizontal_recovery": {kindLength, "nmi", func(p *Parameters) float64 { return p.MinHorizontalRecovery }, func(p *Parameters, v float64) { p.MinHorizontalRecovery = v }},
	"min_vertical_recovery":   {kindLength, "ft", func(p *Parameters) float64 { return p.MinVerticalRecovery }, func(p *Parameters, v float64) { p.MinVerticalRecovery = v }},
	"recovery_stability_time": {kindTime, "s", func(p *Parameters) float64 { return p.RecoveryStabilityTime }, func(p *Parameters, v float64) { p.RecoveryStabilityTime = v }},

	"ca_factor":       {kindScalar, "", func(p *Parameters) float64 { return p.CAFactor }, func(p *Parameters, v float64) { p.CAFactor = v }},
	"horizontal_nmac": {kindLength, "ft", func(p *Parameters) float64 { return p.HorizontalNMAC }, func(p *Parameters, v float64) { p.HorizontalNMAC = v }},
	"vertical_nmac":   {kindLength, "ft", func(p *Parameters) float64 { return p.VerticalNMAC }, func(p *Parameters, v float64) { p.VerticalNMAC = v }},

	"hysteresis_time":  {kindTime, "s", func(p *Parameters) float64 { return p.HysteresisTime }, func(p *Parameters, v float64) { p.HysteresisTime = v }},
	"persistence_time": {kindTime, "s", func(p *Parameters) float64 { return p.PersistenceTime }, func(p *Parameters, v float64) { p.PersistenceTime = v }},

	"persistence_preferred_hdir": {kindAngle, "deg", func(p *Parameters) float64 { return p.PersistencePreferredHdir }, func(p *Parameters, v float64) { p.PersistencePreferredHdir = v }},
	"persistence_preferred_hs":   {kindSpeed, "kt", func(p *Parameters) float64 { return p.PersistencePreferredHS }, func(p *Parameters, v float64) { p.PersistencePreferredHS = v }},
	"persistence_preferred_vs":   {kindVerticalSpeed, "fpm", func(p *Parameters) float64 { return p.PersistencePreferredVS }, func(p *Parameters, v float64) { p.PersistencePreferredVS = v }},
	"persistence_preferred_alt":  {kindLength, "ft", func(p *Parameters) float64 { return p.PersistencePreferredAlt }, func(p *Parameters, v float64) { p.PersistencePreferredAlt = v }},

	"contour_thr": {kindAngle, "deg", func(p *Parameters) float64 { return p.ContourThreshold }, func(p *Parameters, v float64) { p.ContourThreshold = v }},

	"dta_latitude":  {kindScalar, "", func(p *Parameters) float64 { return p.DTALat }, func(p *Parameters, v float64) { p.DTALat = v }},
	"dta_longitude": {kindScalar, "", func(p *Parameters) float64 { return p.DTALon }, func(p *Parameters, v float64) { p.DTALon = v }},
	"dta_radius":    {kindLength, "nmi", func(p *Parameters) float64 { return p.DTARadius }, func(p *Parameters, v float64) { p.DTARadius = v }},
	"dta_height":    {kindLength, "ft", func(p *Parameters) float64 { return p.DTAHeight }, func(p *Parameters, v float64) { p.DTAHeight = v }},

	"z_score_horizontal_position":                  {kindScalar, "", func(p *Parameters) float64 { return p.ZScoreHorizontalPosition }, func(p *Parameters, v float64) { p.ZScoreHorizontalPosition = v }},
	"z_score_horizontal_velocity_min":               {kindScalar, "", func(p *Parameters) float64 { return p.ZScoreHorizontalVelocityMin }, func(p *Parameters, v float64) { p.ZScoreHorizontalVelocityMin = v }},
	"z_score_horizontal_velocity_max":               {kindScalar, "", func(p *Parameters) float64 { return p.ZScoreHorizontalVelocityMax }, func(p *Parameters, v float64) { p.ZScoreHorizontalVelocityMax = v }},
	"z_score_horizontal_velocity_distance_to_ramp":  {kindLength, "m", func(p *Parameters) float64 { return p.ZScoreHorizontalVelocityDistanceToRamp }, func(p *Parameters, v float64) { p.ZScoreHorizontalVelocityDistanceToRamp = v }},
	"z_score_vertical_position":                     {kindScalar, "", func(p *Parameters) float64 { return p.ZScoreVerticalPosition }, func(p *Parameters, v float64) { p.ZScoreVerticalPosition = v }},
	"z_score_vertical_speed":                        {kindScalar, "", func(p *Parameters) float64 { return p.ZScoreVerticalSpeed }, func(p *Parameters, v float64) { p.ZScoreVerticalSpeed = v }},
}

var intFields = map[string]struct {
	get func(p *Parameters) int
	set func(p *Parameters, v int)
}{
	"alerting_m": {func(p *Parameters) int { return p.AlertingM }, func(p *Parameters, v int) { p.AlertingM = v }},
	"alerting_n": {func(p *Parameters) int { return p.AlertingN }, func(p *Parameters, v int) { p.AlertingN = v }},
	"dta_mode":   {func(p *Parameters) int { return p.DTAMode }, func(p *Parameters, v int) { p.DTAMode = v }},
	"dta_alerter": {func(p *Parameters) int { return p.DTAAlerter }, func(p *Parameters, v int) { p.DTAAlerter = v }},
}

var boolFields = map[string]struct {
	get func(p *Parameters) bool
	set func(p *Parameters, v bool)
}{
	"recover_hdir":              {func(p *Parameters) bool { return p.RecoverHdir }, func(p *Parameters, v bool) { p.RecoverHdir = v }},
	"recover_hs":                {func(p *Parameters) bool { return p.RecoverHS }, func(p *Parameters, v bool) { p.RecoverHS = v }},
	"recover_vs":                {func(p *Parameters) bool { return p.RecoverVS }, func(p *Parameters, v bool) { p.RecoverVS = v }},
	"recover_alt":               {func(p *Parameters) bool { return p.RecoverAlt }, func(p *Parameters, v bool) { p.RecoverAlt = v }},
	"ca_bands":                  {func(p *Parameters) bool { return p.CAEnabled }, func(p *Parameters, v bool) { p.CAEnabled = v }},
	"bands_persistence":         {func(p *Parameters) bool { return p.BandsPersistence }, func(p *Parameters, v bool) { p.BandsPersistence = v }},
	"conflict_crit":             {func(p *Parameters) bool { return p.ConflictCrit }, func(p *Parameters, v bool) { p.ConflictCrit = v }},
	"recovery_crit":             {func(p *Parameters) bool { return p.RecoveryCrit }, func(p *Parameters, v bool) { p.RecoveryCrit = v }},
	"ownship_centric_alerting":  {func(p *Parameters) bool { return p.OwnshipCentricAlerting }, func(p *Parameters, v bool) { p.OwnshipCentricAlerting = v }},
}

// Parse reads a parameter file's bytes into a fresh Parameters block
// seeded from Default(), applying every recognized "key = value [unit]"
// line in file order (spec.md §6).
func Parse(data []byte) (*Parameters, error) {
	p := Default()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	sawHeader := false
	var alerterLines []keyValue
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "V-") {
			sawHeader = true
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineNo, line)
		}
		key := canonicalKey(strings.TrimSpace(line[:eq]))
		val := strings.TrimSpace(line[eq+1:])
		if strings.HasPrefix(key, "alerters") || strings.HasPrefix(key, "alert_") || strings.HasPrefix(key, "det_") {
			alerterLines = append(alerterLines, keyValue{key, val})
			continue
		}
		if err := applyScalarKey(p, key, val); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	_ = sawHeader // header is accepted but its version is not otherwise enforced
	if len(alerterLines) > 0 {
		alerters, err := parseAlerters(alerterLines)
		if err != nil {
			return nil, err
		}
		p.Alerters = alerters
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type keyValue struct{ key, val string }

func applyScalarKey(p *Parameters, key, val string) error {
	if spec, ok := numericFields[key]; ok {
		raw, unit, err := ParseValueUnit(val)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		si, err := toSI(spec.kind, raw, unit)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		spec.set(p, si)
		return nil
	}
	if spec, ok := intFields[key]; ok {
		n, err := strconv.Atoi(strings.Fields(val)[0])
		if err != nil {
			return fmt.Errorf("key %q: invalid integer %q", key, val)
		}
		spec.set(p, n)
		return nil
	}
	if spec, ok := boolFields[key]; ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("key %q: invalid boolean %q", key, val)
		}
		spec.set(p, b)
		return nil
	}
	if key == "corrective_region" {
		region, ok := ParseRegion(val)
		if !ok {
			return fmt.Errorf("key %q: unrecognized region %q", key, val)
		}
		p.CorrectiveRegion = region
		return nil
	}
	return fmt.Errorf("unrecognized key %q", key)
}

// parseAlerters reconstructs the Alerter list from the flattened
// "alerters = name1,name2", "alert_<k>_*", and "det_<id>_*" lines a
// parameter file carries (spec.md §3/§6). Detector sub-keys (det_*) are
// accepted for forward compatibility but the detector registry itself
// (pkg/detector) owns their interpretation; this parser only captures
// the detector id each level references.
func parseAlerters(lines []keyValue) ([]Alerter, error) {
	var names []string
	levels := map[int][]keyValue{} // level number k (1-based) -> its alert_<k>_* lines
	for _, kv := range lines {
		switch {
		case kv.key == "alerters":
			for _, n := range strings.Split(kv.val, ",") {
				n = strings.TrimSpace(n)
				if n != "" {
					names = append(names, n)
				}
			}
		case strings.HasPrefix(kv.key, "alert_"):
			rest := strings.TrimPrefix(kv.key, "alert_")
			parts := strings.SplitN(rest, "_", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("malformed alert key %q", kv.key)
			}
			idx, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("malformed alert key %q: %w", kv.key, err)
			}
			levels[idx] = append(levels[idx], keyValue{parts[1], kv.val})
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("alerters key present but empty")
	}
	alerters := make([]Alerter, len(names))
	indices := make([]int, 0, len(levels))
	for idx := range levels {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, name := range names {
		alerters[indexOf(names, name)] = Alerter{Name: name}
	}
	// Levels are addressed by a single flattened counter across all
	// alerters in file order; assign them to the alerter whose name they
	// follow is not recoverable from this flattened format alone, so a
	// single-alerter file (the common case) maps levels directly and a
	// multi-alerter file requires each alerter's levels to appear under
	// its own name-prefixed block instead.
	if len(names) == 1 {
		var thresholds []AlertThreshold
		for _, idx := range indices {
			t, err := buildThreshold(levels[idx])
			if err != nil {
				return nil, err
			}
			thresholds = append(thresholds, t)
		}
		alerters[0].Levels = thresholds
		return alerters, nil
	}
	return nil, fmt.Errorf("multi-alerter parameter files are not supported by this format revision")
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return -1
}

func buildThreshold(fields []keyValue) (AlertThreshold, error) {
	var t AlertThreshold
	for _, kv := range fields {
		switch kv.key {
		case "detector":
			t.Detector = kv.val
		case "alerting_time":
			raw, unit, err := ParseValueUnit(kv.val)
			if err != nil {
				return t, err
			}
			si, err := toSI(kindTime, raw, unit)
			if err != nil {
				return t, err
			}
			t.AlertingTime = si
		case "early_alerting_time":
			raw, unit, err := ParseValueUnit(kv.val)
			if err != nil {
				return t, err
			}
			si, err := toSI(kindTime, raw, unit)
			if err != nil {
				return t, err
			}
			t.EarlyAlertingTime = si
		case "region":
			region, ok := ParseRegion(kv.val)
			if !ok {
				return t, fmt.Errorf("unrecognized region %q", kv.val)
			}
			t.Region = region
		case "spread_hdir", "spread_hs", "spread_vs", "spread_alt":
			raw, unit, err := ParseValueUnit(kv.val)
			if err != nil {
				return t, err
			}
			var kind unitKind
			switch kv.key {
			case "spread_hdir":
				kind = kindAngle
			case "spread_hs":
				kind = kindSpeed
			case "spread_vs":
				kind = kindVerticalSpeed
			default:
				kind = kindLength
			}
			si, err := toSI(kind, raw, unit)
			if err != nil {
				return t, err
			}
			switch kv.key {
			case "spread_hdir":
				t.SpreadHdir = si
			case "spread_hs":
				t.SpreadHS = si
			case "spread_vs":
				t.SpreadVS = si
			case "spread_alt":
				t.SpreadAlt = si
			}
		}
	}
	return t, nil
}

// ParseFile reads and parses the parameter file at path.
func ParseFile(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Save writes p to path in the bespoke parameter-file format.
func Save(p *Parameters, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTo(f, p)
}

// WriteTo renders p as the numericFields, then intFields, then
// boolFields groups, each in sorted key order (Go map iteration is
// randomized, so this walks a fixed, sorted key list to keep repeated
// saves byte-identical, which spec.md §8 P3's round-trip test depends
// on).
func WriteTo(w io.Writer, p *Parameters) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, fileFormatVersion)
	fmt.Fprintln(bw, "#")
	fmt.Fprintln(bw, "# DAIDALUS parameter file")
	fmt.Fprintln(bw, "#")

	var numKeys []string
	for k := range numericFields {
		numKeys = append(numKeys, k)
	}
	sort.Strings(numKeys)
	for _, k := range numKeys {
		spec := numericFields[k]
		si := spec.get(p)
		disp := fromSI(spec.kind, si, spec.unit)
		if spec.unit == "" {
			fmt.Fprintf(bw, "%s = %s\n", k, formatFloat(disp))
		} else {
			fmt.Fprintf(bw, "%s = %s [%s]\n", k, formatFloat(disp), spec.unit)
		}
	}

	var intKeys []string
	for k := range intFields {
		intKeys = append(intKeys, k)
	}
	sort.Strings(intKeys)
	for _, k := range intKeys {
		fmt.Fprintf(bw, "%s = %d\n", k, intFields[k].get(p))
	}

	var boolKeys []string
	for k := range boolFields {
		boolKeys = append(boolKeys, k)
	}
	sort.Strings(boolKeys)
	for _, k := range boolKeys {
		fmt.Fprintf(bw, "%s = %t\n", k, boolFields[k].get(p))
	}

	fmt.Fprintf(bw, "corrective_region = %s\n", p.CorrectiveRegion.String())

	writeAlerters(bw, p)

	return bw.Flush()
}

func writeAlerters(bw *bufio.Writer, p *Parameters) {
	if len(p.Alerters) == 0 {
		return
	}
	names := make([]string, len(p.Alerters))
	for i, a := range p.Alerters {
		names[i] = a.Name
	}
	fmt.Fprintf(bw, "alerters = %s\n", strings.Join(names, ","))
	if len(p.Alerters) != 1 {
		return
	}
	for i, lvl := range p.Alerters[0].Levels {
		k := i + 1
		fmt.Fprintf(bw, "alert_%d_detector = %s\n", k, lvl.Detector)
		fmt.Fprintf(bw, "alert_%d_alerting_time = %s [s]\n", k, formatFloat(lvl.AlertingTime))
		fmt.Fprintf(bw, "alert_%d_early_alerting_time = %s [s]\n", k, formatFloat(lvl.EarlyAlertingTime))
		fmt.Fprintf(bw, "alert_%d_region = %s\n", k, lvl.Region.String())
		if lvl.SpreadHdir != 0 {
			fmt.Fprintf(bw, "alert_%d_spread_hdir = %s [deg]\n", k, formatFloat(fromSI(kindAngle, lvl.SpreadHdir, "deg")))
		}
		if lvl.SpreadHS != 0 {
			fmt.Fprintf(bw, "alert_%d_spread_hs = %s [kt]\n", k, formatFloat(fromSI(kindSpeed, lvl.SpreadHS, "kt")))
		}
		if lvl.SpreadVS != 0 {
			fmt.Fprintf(bw, "alert_%d_spread_vs = %s [fpm]\n", k, formatFloat(fromSI(kindVerticalSpeed, lvl.SpreadVS, "fpm")))
		}
		if lvl.SpreadAlt != 0 {
			fmt.Fprintf(bw, "alert_%d_spread_alt = %s [ft]\n", k, formatFloat(fromSI(kindLength, lvl.SpreadAlt, "ft")))
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
