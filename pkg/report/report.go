// Package report renders Daidalus query results (bands, alert levels,
// recovery search outcomes) as colorized terminal tables, the CLI-facing
// counterpart to pkg/logger's plain structured log output.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
	"github.com/airspace-systems/daidalus-go/pkg/daidalus"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

// colorEnabled mirrors the teacher's noColor knob: colorize only when
// w is an actual terminal. logger.SetNoColor (the --no-color flag) does
// not affect this check.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func regionColor(r params.Region) *color.Color {
	switch r {
	case params.RegionNone:
		return color.New(color.FgGreen)
	case params.RegionFar:
		return color.New(color.FgYellow)
	case params.RegionMid:
		return color.New(color.FgHiYellow, color.Bold)
	case params.RegionNear:
		return color.New(color.FgRed, color.Bold)
	case params.RegionRecovery:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

// DimensionUnit names the display unit and conversion each dimension
// renders with, following DAIDALUS's conventional reporting units
// (degrees for direction, knots/ft-per-minute/feet for the rest).
type DimensionUnit struct {
	Name    string
	toDisp  func(float64) float64
	Decimal int
}

func unitFor(dim kinematics.Dimension) DimensionUnit {
	switch dim {
	case kinematics.DimDirection:
		return DimensionUnit{Name: "deg", toDisp: func(v float64) float64 { return v * 180 / math.Pi }, Decimal: 1}
	case kinematics.DimHorizontalSpeed:
		return DimensionUnit{Name: "kt", toDisp: func(v float64) float64 { return v * 1.9438444924574 }, Decimal: 1}
	case kinematics.DimVerticalSpeed:
		return DimensionUnit{Name: "fpm", toDisp: func(v float64) float64 { return v * 196.85039370079 }, Decimal: 0}
	case kinematics.DimAltitude:
		return DimensionUnit{Name: "ft", toDisp: func(v float64) float64 { return v / 0.3048 }, Decimal: 0}
	}
	return DimensionUnit{Name: "", toDisp: func(v float64) float64 { return v }, Decimal: 3}
}

func dimensionLabel(dim kinematics.Dimension) string {
	switch dim {
	case kinematics.DimDirection:
		return "Direction"
	case kinematics.DimHorizontalSpeed:
		return "Horizontal Speed"
	case kinematics.DimVerticalSpeed:
		return "Vertical Speed"
	case kinematics.DimAltitude:
		return "Altitude"
	}
	return "?"
}

// BandsTable renders one dimension's BandsRange[] as a colorized table:
// one row per contiguous range, the region name colorized by severity.
func BandsTable(w io.Writer, dim kinematics.Dimension, ranges []daidalus.BandsRange) {
	u := unitFor(dim)
	colored := colorEnabled(w)

	fmt.Fprintf(w, "%s bands (%s)\n", dimensionLabel(dim), u.Name)
	header := fmt.Sprintf("%-12s %-12s %s", "LOW", "HIGH", "REGION")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range ranges {
		lo := u.toDisp(r.Lo)
		hi := u.toDisp(r.Hi)
		line := fmt.Sprintf("%-12.*f %-12.*f %s", u.Decimal, lo, u.Decimal, hi, r.Region)
		if colored {
			line = fmt.Sprintf("%-12.*f %-12.*f %s", u.Decimal, lo, u.Decimal, hi, regionColor(r.Region).Sprint(r.Region))
		}
		fmt.Fprintln(w, line)
	}
}

// AlertTable renders one row per traffic aircraft's current alert level
// and region, 1-based indices matching Daidalus.AlertLevel's contract.
func AlertTable(w io.Writer, ids []string, levels []int, regions []params.Region) {
	colored := colorEnabled(w)
	header := fmt.Sprintf("%-4s %-16s %-6s %s", "IDX", "AIRCRAFT", "LEVEL", "REGION")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))
	for i := range ids {
		regionStr := regions[i].String()
		if colored {
			regionStr = regionColor(regions[i]).Sprint(regions[i])
		}
		fmt.Fprintf(w, "%-4d %-16s %-6d %s\n", i+1, ids[i], levels[i], regionStr)
	}
}

// RecoveryLine renders one dimension's recovery-search outcome as a
// single colorized summary line.
func RecoveryLine(w io.Writer, dim kinematics.Dimension, result bandsreal.RecoveryResult) {
	colored := colorEnabled(w)
	label := dimensionLabel(dim)
	if !result.Found {
		msg := fmt.Sprintf("%s: no recovery bands found within lookahead", label)
		if colored {
			msg = color.New(color.FgRed).Sprint(msg)
		}
		fmt.Fprintln(w, msg)
		return
	}
	msg := fmt.Sprintf("%s: recovery at t=%.1fs (n=%d, hradius=%.0fm, vradius=%.0fm)",
		label, result.RecoveryTime, result.NFactor, result.HorizontalRadius, result.VerticalRadius)
	if colored {
		msg = color.New(color.FgCyan).Sprint(msg)
	}
	fmt.Fprintln(w, msg)
}
