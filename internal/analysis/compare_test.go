package analysis

import (
	"math"
	"testing"

	"rats/internal/services/oiio"
)

func TestDeriveErrorScalars(t *testing.T) {
	stats := oiio.Stats{
		Avg:    []float64{0.01, 0.02, 0.03},
		StdDev: []float64{0.001, 0.002, 0.003},
		Max:    []float64{0.1, 0.2, 0.15},
		Min:    []float64{0, 0, 0},
	}

	cmp := Derive(stats)

	wantMean := (0.01 + 0.02 + 0.03) / 3
	if math.Abs(cmp.MeanError-wantMean) > 1e-15 {
		t.Fatalf("mean error = %v, want %v", cmp.MeanError, wantMean)
	}

	wantRMS := math.Sqrt((0.01*0.01 + 0.001*0.001 + 0.02*0.02 + 0.002*0.002 + 0.03*0.03 + 0.003*0.003) / 3)
	if math.Abs(cmp.RMSError-wantRMS) > 1e-15 {
		t.Fatalf("rms error = %v, want %v", cmp.RMSError, wantRMS)
	}

	if cmp.MaxError != 0.2 {
		t.Fatalf("max error = %v, want 0.2", cmp.MaxError)
	}
}

func TestDeriveEmptyStats(t *testing.T) {
	cmp := Derive(oiio.Stats{})
	if cmp.MeanError != 0 || cmp.RMSError != 0 || cmp.MaxError != 0 {
		t.Fatalf("empty stats should derive zero errors: %+v", cmp)
	}
}

func TestNewPairKeyNormalizesOrder(t *testing.T) {
	if NewPairKey(3, 1) != NewPairKey(1, 3) {
		t.Fatal("pair keys should be order-independent")
	}
	key := NewPairKey(5, 2)
	if key.I != 2 || key.J != 5 {
		t.Fatalf("key = %+v, want I<J", key)
	}
}

func TestComparisonSetSymmetricLookup(t *testing.T) {
	set := NewComparisonSet(4)
	set.Add(2, 1, Comparison{RMSError: 0.5})

	forward, ok := set.Lookup(1, 2)
	if !ok {
		t.Fatal("lookup (1,2) failed")
	}
	backward, ok := set.Lookup(2, 1)
	if !ok {
		t.Fatal("lookup (2,1) failed")
	}
	if forward != backward {
		t.Fatal("symmetric lookups returned different comparisons")
	}
	if forward.RMSError != 0.5 {
		t.Fatalf("rms = %v", forward.RMSError)
	}
}
