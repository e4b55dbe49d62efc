package boa

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewBoundsBad(t *testing.T) {
	var tests = []struct {
		name    string
		low, up []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{0, 0}, []float64{1}},
		{"inverted", []float64{0, 2}, []float64{1, 1}},
	}

	for _, test := range tests {
		_, err := NewBounds(test.low, test.up)
		if !errors.Is(err, BadBoundsErr) {
			t.Errorf("%v: expected BadBoundsErr, got %v", test.name, err)
		}
	}

	if _, err := NewBounds([]float64{-1, -1}, []float64{1, 1}); err != nil {
		t.Errorf("valid bounds rejected: %v", err)
	}
}

func TestClamp(t *testing.T) {
	b, err := NewBounds([]float64{-1, -1, -1}, []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	pos := []float64{-3, 0.5, 7}
	b.Clamp(pos)
	want := []float64{-1, 0.5, 1}
	for i := range pos {
		if pos[i] != want[i] {
			t.Errorf("dim %v: expected %v, got %v", i, want[i], pos[i])
		}
	}
	if !b.In(pos) {
		t.Errorf("clamped position %v reported outside bounds", pos)
	}
}

func TestRandPop(t *testing.T) {
	b, err := NewBounds([]float64{-5, 0}, []float64{5, 10})
	if err != nil {
		t.Fatal(err)
	}

	points := b.RandPop(100, rand.New(rand.NewSource(42)))
	if len(points) != 100 {
		t.Fatalf("expected 100 points, got %v", len(points))
	}
	for i, p := range points {
		if !b.In(p.Pos()) {
			t.Errorf("point %v seeded outside bounds: %v", i, p.Pos())
		}
		if !math.IsInf(p.Val, 1) {
			t.Errorf("point %v value not initialized to +inf: %v", i, p.Val)
		}
	}
}
