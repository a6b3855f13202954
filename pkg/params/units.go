package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// unitKind classifies a numeric parameter so ParseValueUnit knows which
// unit table to apply.
type unitKind int

const (
	kindAngle unitKind = iota
	kindLength
	kindSpeed
	kindVerticalSpeed
	kindTime
	kindScalar
)

// ParseValueUnit splits "<number> [unit]" into its numeric value (still
// in the given unit) and the unit string itself ("" when no unit is
// present, meaning the field's SI default).
func ParseValueUnit(raw string) (float64, string, error) {
	raw = strings.TrimSpace(raw)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("empty value")
	}
	val, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid number %q: %w", fields[0], err)
	}
	unit := ""
	if len(fields) > 1 {
		unit = strings.Trim(fields[1], "[]")
	}
	return val, unit, nil
}

func toSI(kind unitKind, val float64, unit string) (float64, error) {
	switch kind {
	case kindAngle:
		switch unit {
		case "", "rad":
			return val, nil
		case "deg":
			return val * math.Pi / 180, nil
		}
	case kindLength:
		switch unit {
		case "", "m":
			return val, nil
		case "ft":
			return val * 0.3048, nil
		case "nmi", "NM":
			return val * 1852.0, nil
		case "km":
			return val * 1000.0, nil
		}
	case kindSpeed:
		switch unit {
		case "", "m/s", "mps":
			return val, nil
		case "kt", "knot", "knots":
			return val * 0.5144444, nil
		case "fpm":
			return val * 0.00508, nil
		case "mph":
			return val * 0.44704, nil
		case "kph", "km/h":
			return val / 3.6, nil
		}
	case kindVerticalSpeed:
		switch unit {
		case "", "m/s", "mps":
			return val, nil
		case "fpm":
			return val * 0.00508, nil
		}
	case kindTime:
		switch unit {
		case "", "s":
			return val, nil
		case "min":
			return val * 60, nil
		}
	case kindScalar:
		return val, nil
	}
	return 0, fmt.Errorf("unrecognized unit %q", unit)
}

func fromSI(kind unitKind, siVal float64, unit string) float64 {
	switch kind {
	case kindAngle:
		if unit == "deg" {
			return siVal * 180 / math.Pi
		}
	case kindLength:
		switch unit {
		case "ft":
			return siVal / 0.3048
		case "nmi", "NM":
			return siVal / 1852.0
		case "km":
			return siVal / 1000.0
		}
	case kindSpeed:
		switch unit {
		case "kt", "knot", "knots":
			return siVal / 0.5144444
		case "fpm":
			return siVal / 0.00508
		case "mph":
			return siVal / 0.44704
		case "kph", "km/h":
			return siVal * 3.6
		}
	case kindVerticalSpeed:
		if unit == "fpm" {
			return siVal / 0.00508
		}
	case kindTime:
		if unit == "min" {
			return siVal / 60
		}
	}
	return siVal
}
