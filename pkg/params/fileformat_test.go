package params

import (
	"bytes"
	"testing"
)

func TestParseDefaultRoundTrip(t *testing.T) {
	p := Default()
	var buf bytes.Buffer
	if err := WriteTo(&buf, p); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	reparsed, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if reparsed.LookaheadTime != p.LookaheadTime {
		t.Errorf("lookahead_time round trip: got %v want %v", reparsed.LookaheadTime, p.LookaheadTime)
	}
	if reparsed.MinHorizontalRecovery != p.MinHorizontalRecovery {
		t.Errorf("min_horizontal_recovery round trip: got %v want %v", reparsed.MinHorizontalRecovery, p.MinHorizontalRecovery)
	}
	if len(reparsed.Alerters) != 1 || len(reparsed.Alerters[0].Levels) != len(p.Alerters[0].Levels) {
		t.Fatalf("alerter round trip: got %+v", reparsed.Alerters)
	}
	for i, lvl := range p.Alerters[0].Levels {
		got := reparsed.Alerters[0].Levels[i]
		if got.Region != lvl.Region || got.Detector != lvl.Detector || got.AlertingTime != lvl.AlertingTime {
			t.Errorf("level %d round trip mismatch: got %+v want %+v", i, got, lvl)
		}
	}

	var again bytes.Buffer
	if err := WriteTo(&again, reparsed); err != nil {
		t.Fatalf("WriteTo second pass: %v", err)
	}
	if buf.String() != again.String() {
		t.Errorf("save-then-load-then-save is not bit-exact")
	}
}

func TestDeprecatedAliasRewrite(t *testing.T) {
	data := []byte("trk_step = 2 [deg]\nalerters = default\nalert_1_detector = cylinder\nalert_1_alerting_time = 30 [s]\nalert_1_early_alerting_time = 30 [s]\nalert_1_region = NEAR\n")
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantRad := 2.0 * 3.141592653589793 / 180
	if diff := p.StepHdir - wantRad; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("trk_step alias did not set step_hdir: got %v want %v", p.StepHdir, wantRad)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := Parse([]byte("not_a_real_key = 5\n"))
	if err == nil {
		t.Fatal("expected error for unrecognized key")
	}
}
