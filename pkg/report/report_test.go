package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
	"github.com/airspace-systems/daidalus-go/pkg/daidalus"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

func TestBandsTableUncolored(t *testing.T) {
	var buf bytes.Buffer
	ranges := []daidalus.BandsRange{
		{Lo: 0, Hi: 1.0, Region: params.RegionNone},
		{Lo: 1.0, Hi: 1.5, Region: params.RegionNear},
	}
	BandsTable(&buf, kinematics.DimHorizontalSpeed, ranges)

	out := buf.String()
	if !strings.Contains(out, "Horizontal Speed bands (kt)") {
		t.Errorf("expected a header naming the dimension and unit, got %q", out)
	}
	if !strings.Contains(out, "NEAR") {
		t.Errorf("expected the NEAR region to appear in the output, got %q", out)
	}
}

func TestAlertTableUncolored(t *testing.T) {
	var buf bytes.Buffer
	AlertTable(&buf, []string{"tfc1", "tfc2"}, []int{0, 2}, []params.Region{params.RegionNone, params.RegionMid})

	out := buf.String()
	if !strings.Contains(out, "tfc1") || !strings.Contains(out, "tfc2") {
		t.Errorf("expected both aircraft ids in the table, got %q", out)
	}
	if !strings.Contains(out, "MID") {
		t.Errorf("expected the MID region to appear, got %q", out)
	}
}

func TestRecoveryLineReportsNotFound(t *testing.T) {
	var buf bytes.Buffer
	RecoveryLine(&buf, kinematics.DimAltitude, bandsreal.RecoveryResult{Found: false})

	out := buf.String()
	if !strings.Contains(out, "no recovery bands found") {
		t.Errorf("expected a 'no recovery' message, got %q", out)
	}
}

func TestRecoveryLineReportsFound(t *testing.T) {
	var buf bytes.Buffer
	RecoveryLine(&buf, kinematics.DimDirection, bandsreal.RecoveryResult{
		Found: true, RecoveryTime: 12.5, NFactor: 2, HorizontalRadius: 500, VerticalRadius: 100,
	})

	out := buf.String()
	if !strings.Contains(out, "recovery at t=12.5s") {
		t.Errorf("expected the recovery time in the summary, got %q", out)
	}
}
