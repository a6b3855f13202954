package hysteresis

import (
	"testing"
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/bandsreal"
)

func TestAlertDatumFirstSampleReportsRaw(t *testing.T) {
	d := NewAlertDatum(3, 2)
	got := d.Update(time.Now(), 2, 5, 10)
	if got != 2 {
		t.Fatalf("first sample should report raw value, got %d", got)
	}
}

func TestAlertDatumPersistsAfterDrop(t *testing.T) {
	d := NewAlertDatum(3, 1)
	base := time.Now()
	d.Update(base, 3, 5, 10)
	d.Update(base.Add(1*time.Second), 3, 5, 10)
	got := d.Update(base.Add(2*time.Second), 0, 5, 10)
	if got != 3 {
		t.Fatalf("expected persisted level 3 shortly after drop, got %d", got)
	}
}

func TestAlertDatumDropsAfterPersistenceExpires(t *testing.T) {
	d := NewAlertDatum(3, 1)
	base := time.Now()
	d.Update(base, 3, 5, 2)
	// At +6s the level-3 sample has left the 5s window, so persistence starts.
	d.Update(base.Add(6*time.Second), 0, 5, 2)
	got := d.Update(base.Add(8*time.Second), 0, 5, 2)
	if got != 0 {
		t.Fatalf("expected level to drop after persistence window elapses, got %d", got)
	}
}

func TestBandsDatumCarriesWithinFreshGreen(t *testing.T) {
	d := &BandsDatum{}
	d.Store(10, 20, 100)
	green := bandsreal.Set{{Lo: 5, Hi: 25}}
	low, up, dir, ok := d.Carry(true, green, 100, 5)
	if !ok || low != 10 || up != 20 || dir != 100 {
		t.Fatalf("expected carried resolution, got low=%v up=%v dir=%v ok=%v", low, up, dir, ok)
	}
}

func TestBandsDatumDoesNotCarryWhenNotSaturated(t *testing.T) {
	d := &BandsDatum{}
	d.Store(10, 20, 100)
	green := bandsreal.Set{{Lo: 5, Hi: 25}}
	_, _, _, ok := d.Carry(false, green, 100, 5)
	if ok {
		t.Fatal("should not carry a resolution when the dimension is not saturated")
	}
}
