package core

import (
	"errors"
	"testing"
)

func TestComputeSampleHash_OrderAndParamsMatter(t *testing.T) {
	a := ComputeSampleHash([]float64{1, 2, 3}, map[string]string{"level": "0.95"})
	b := ComputeSampleHash([]float64{1, 2, 3}, map[string]string{"level": "0.95"})
	if a != b {
		t.Fatalf("same input produced different hashes: %s vs %s", a, b)
	}

	if c := ComputeSampleHash([]float64{3, 2, 1}, map[string]string{"level": "0.95"}); c == a {
		t.Error("reordered sample should change the fingerprint")
	}
	if d := ComputeSampleHash([]float64{1, 2, 3}, map[string]string{"level": "0.90"}); d == a {
		t.Error("different parameters should change the fingerprint")
	}
	if len(a.Short()) != 12 {
		t.Errorf("expected 12-char short hash, got %q", a.Short())
	}
}

func TestDeriveSeed(t *testing.T) {
	if DeriveSeed(42, "t") != DeriveSeed(42, "t") {
		t.Fatal("DeriveSeed must be deterministic")
	}
	if DeriveSeed(42, "t") == DeriveSeed(42, "wilson") {
		t.Error("different stream names should give different seeds")
	}
	if DeriveSeed(42, "t") < 0 {
		t.Error("derived seeds must be non-negative")
	}
}

func TestErrorKinds(t *testing.T) {
	err := NewInvalidParameterError("p", 1.5, "must lie in (0,1)")
	if !IsInvalidParameter(err) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
	if !IsInsufficientData(NewInsufficientStudiesError(1, 2)) {
		t.Error("insufficient studies should count as insufficient data")
	}
	if !errors.Is(NewUnsupportedMethodError("magic"), ErrUnsupportedMethod) {
		t.Error("expected unsupported method sentinel")
	}
	if !IsDegenerateInput(NewDegenerateInputError("zero spread")) {
		t.Error("expected degenerate input sentinel")
	}
}
