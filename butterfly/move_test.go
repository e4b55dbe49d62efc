package butterfly

import (
	"math"
	"math/rand"
	"testing"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
)

func testIter(t *testing.T, variant Variant, n, maxgen int, opts ...Option) *Iterator {
	t.Helper()
	b, err := boa.NewBounds([]float64{-5, -5}, []float64{5, 5})
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{Rand(rand.New(rand.NewSource(7)))}, opts...)
	it, err := New(nil, variant, b, n, maxgen, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return it
}

func ringDist(i, j, n int) int {
	d := i - j
	if d < 0 {
		d = -d
	}
	if n-d < d {
		d = n - d
	}
	return d
}

func TestPickPeersWholePopulation(t *testing.T) {
	it := testIter(t, BOA, 10, 20)
	for trial := 0; trial < 1000; trial++ {
		j, k := it.pickPeers(3, len(it.Pop))
		if j == 3 || k == 3 {
			t.Fatalf("trial %v: peer equals the moving butterfly: j=%v k=%v", trial, j, k)
		}
		if j == k {
			t.Fatalf("trial %v: peers are not distinct: %v", trial, j)
		}
	}
}

func TestPickPeersNeighborhood(t *testing.T) {
	it := testIter(t, MBOA, 10, 20)
	const radius = 2
	for trial := 0; trial < 1000; trial++ {
		j, k := it.pickPeers(3, radius)
		if j == 3 || k == 3 || j == k {
			t.Fatalf("trial %v: bad peer pair j=%v k=%v", trial, j, k)
		}
		if ringDist(j, 3, 10) > radius || ringDist(k, 3, 10) > radius {
			t.Fatalf("trial %v: peer outside ring radius %v: j=%v k=%v", trial, radius, j, k)
		}
	}
}

func TestNeighborhoodShrinks(t *testing.T) {
	it := testIter(t, MBOA, 20, 100, ShrinkRate(1))

	prev := it.radius()
	if prev != len(it.Pop)/2 {
		t.Errorf("initial radius is %v, expected %v", prev, len(it.Pop)/2)
	}
	for g := 0; g <= 2*it.state.MaxGen; g++ {
		it.state.Gen = g
		r := it.radius()
		if r > prev {
			t.Fatalf("gen %v: radius grew from %v to %v", g, prev, r)
		}
		if r < 1 {
			t.Fatalf("gen %v: radius fell below 1: %v", g, r)
		}
		prev = r
	}
	if prev != 1 {
		t.Errorf("final radius is %v, expected 1", prev)
	}
}

func TestFragranceDegeneracy(t *testing.T) {
	it := testIter(t, BOA, 10, 20)
	it.state.C = 0.5
	it.state.A = 0.1

	if f := it.fragrance(2); f <= 0 || math.IsNaN(f) {
		t.Errorf("finite fitness produced fragrance %v", f)
	}
	if f := it.fragrance(-2); f <= 0 {
		t.Errorf("negative fitness should still give positive fragrance, got %v", f)
	}
	if f := it.fragrance(math.Inf(1)); f != 0 {
		t.Errorf("infinite fitness should zero fragrance, got %v", f)
	}
	if f := it.fragrance(math.NaN()); f != 0 {
		t.Errorf("NaN fitness should zero fragrance, got %v", f)
	}
	if it.Degenerate() != 2 {
		t.Errorf("expected 2 degeneracy warnings, got %v", it.Degenerate())
	}
}

func TestCrossoverAcceptance(t *testing.T) {
	obj := boa.SimpleObjectiver(func(x []float64) float64 {
		tot := 0.0
		for _, v := range x {
			tot += v * v
		}
		return tot
	})

	it := testIter(t, XBOA, 2, 20)
	it.Pop[0].Pos = []float64{1, 1}
	it.Pop[0].Val = 2
	it.Pop[1].Pos = []float64{3, 4}
	it.Pop[1].Val = 25

	for trial := 0; trial < 200; trial++ {
		weak, strong := it.Pop[1], it.Pop[0]
		if it.Pop[0].Val > it.Pop[1].Val {
			weak, strong = it.Pop[0], it.Pop[1]
		}
		weakVal := weak.Val
		strongVal := strong.Val
		strongPos := append([]float64{}, strong.Pos...)

		n, err := it.crossover(0, obj)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Fatalf("trial %v: crossover made %v evaluations, expected 1", trial, n)
		}
		if weak.Val > weakVal {
			t.Fatalf("trial %v: weaker parent worsened from %v to %v", trial, weakVal, weak.Val)
		}
		if strong.Val != strongVal {
			t.Fatalf("trial %v: stronger parent value changed", trial)
		}
		for d := range strongPos {
			if strong.Pos[d] != strongPos[d] {
				t.Fatalf("trial %v: stronger parent position changed", trial)
			}
		}
	}
}
