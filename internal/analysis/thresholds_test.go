package analysis

import (
	"math"
	"testing"
)

func TestDeriveToleranceChebyshevOperatingPoints(t *testing.T) {
	tol := DeriveTolerance(ImageSummary{
		LargestAvg:      0.01,
		LargestStdDev:   0.002,
		LargestMaxError: 0.05,
	})

	if math.Abs(tol.Warn-0.014) > 1e-12 {
		t.Fatalf("warn = %v, want 0.014", tol.Warn)
	}
	if tol.WarnPercent != 25.0 {
		t.Fatalf("warnpercent = %v, want 25.0", tol.WarnPercent)
	}
	if math.Abs(tol.Fail-0.016) > 1e-12 {
		t.Fatalf("fail = %v, want 0.016", tol.Fail)
	}
	if tol.FailPercent != 11.1111 {
		t.Fatalf("failpercent = %v, want 11.1111", tol.FailPercent)
	}
	if math.Abs(tol.HardFail-0.5) > 1e-12 {
		t.Fatalf("hardfail = %v, want 0.5", tol.HardFail)
	}
}

func TestDeriveToleranceHardFailFloor(t *testing.T) {
	tol := DeriveTolerance(ImageSummary{LargestMaxError: 0.0001})
	if tol.HardFail != 0.004 {
		t.Fatalf("hardfail = %v, want floor 0.004", tol.HardFail)
	}
}

func TestDeriveToleranceZeroSummary(t *testing.T) {
	tol := DeriveTolerance(ImageSummary{})
	if tol.Warn != 0 || tol.Fail != 0 {
		t.Fatalf("zero moments should derive zero warn/fail: %+v", tol)
	}
	if tol.HardFail != 0.004 {
		t.Fatalf("hardfail floor should apply: %v", tol.HardFail)
	}
}
