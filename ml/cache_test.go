package ml

import (
	"errors"
	"testing"
)

type countingPredictor struct {
	calls int
	err   error
}

func (p *countingPredictor) Predict(x float64) (float64, error) {
	p.calls++
	return x * 2, p.err
}

func TestCachedPredictor(t *testing.T) {
	inner := &countingPredictor{}
	cached, err := NewCachedPredictor(inner, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := cached.Predict(5)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	second, err := cached.Predict(5)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if first != second || first != 10 {
		t.Fatalf("expected identical cached result 10, got %v and %v", first, second)
	}
	if inner.calls != 1 {
		t.Fatalf("expected single inner call, got %d", inner.calls)
	}
	if cached.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", cached.Len())
	}
}

func TestCachedPredictorErrorNotCached(t *testing.T) {
	inner := &countingPredictor{err: errors.New("boom")}
	cached, err := NewCachedPredictor(inner, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := cached.Predict(5); err == nil {
		t.Fatal("expected error")
	}
	if cached.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cached.Len())
	}

	inner.err = nil
	if _, err := cached.Predict(5); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected inner called twice, got %d", inner.calls)
	}
}
