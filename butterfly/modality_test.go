package butterfly

import (
	"math"
	"testing"
)

func TestLinearSchedule(t *testing.T) {
	l := Linear{C0: 0.01, A: 0.1}
	s := &State{MaxGen: 100, C: l.C0, A: l.A}

	prev := l.C0
	// overrun the budget to exercise the clamp on the generation index
	for g := 0; g < 2*s.MaxGen; g++ {
		s.Gen = g
		c, a := l.Update(s, Feedback{})
		if a != l.A {
			t.Fatalf("gen %v: power exponent changed to %v", g, a)
		}
		if c < prev {
			t.Fatalf("gen %v: c decreased from %v to %v", g, prev, c)
		}
		if c > 1+1e-12 {
			t.Fatalf("gen %v: c exceeded 1: %v", g, c)
		}
		if g == s.MaxGen-1 && math.Abs(c-1) > 1e-9 {
			t.Errorf("c at generation budget is %v, expected 1", c)
		}
		prev = c
	}
}

func TestNonLinearSchedule(t *testing.T) {
	nl := NonLinear{C0: 0.01, A0: 0.1, A1: 0.3, Mu: 2}
	s := &State{MaxGen: 50, C: nl.C0, A: nl.A0}

	preva := nl.A0
	prevc := nl.C0
	for g := 0; g < 2*s.MaxGen; g++ {
		s.Gen = g
		c, a := nl.Update(s, Feedback{})
		if a < preva {
			t.Fatalf("gen %v: a decreased from %v to %v", g, preva, a)
		}
		if a < nl.A0 || a > nl.A1+1e-12 {
			t.Fatalf("gen %v: a left [%v,%v]: %v", g, nl.A0, nl.A1, a)
		}
		if c < prevc || c > 1+1e-12 {
			t.Fatalf("gen %v: c schedule broken: %v -> %v", g, prevc, c)
		}
		if g == s.MaxGen-1 && math.Abs(a-nl.A1) > 1e-9 {
			t.Errorf("a at generation budget is %v, expected %v", a, nl.A1)
		}
		preva, prevc = a, c
	}
}

func TestAdaptiveSchedule(t *testing.T) {
	ad := Adaptive{Target: 0.2, Step: 0.025, AMax: 0.3}
	s := &State{MaxGen: 100, C: 0.5, A: 0.2}

	// sustained below-target improvement drives both parameters
	// monotonically toward the exploratory bound without overshooting it
	prev := s.C
	for i := 0; i < 100; i++ {
		c, a := ad.Update(s, Feedback{Improved: 0})
		if c > prev {
			t.Fatalf("step %v: c increased under stagnation: %v -> %v", i, prev, c)
		}
		if c < 0 || a < 0 {
			t.Fatalf("step %v: parameter left its lower bound: c=%v a=%v", i, c, a)
		}
		if math.Abs(s.C-c) > ad.Step+1e-12 {
			t.Fatalf("step %v: adaptation jumped more than one step: %v -> %v", i, s.C, c)
		}
		s.C, s.A = c, a
		prev = c
	}
	if s.C != 0 || s.A != 0 {
		t.Errorf("expected c and a to reach exploratory bound, got c=%v a=%v", s.C, s.A)
	}

	// sustained above-target improvement in a spread-out population drives
	// them back up to the caps
	for i := 0; i < 100; i++ {
		s.C, s.A = ad.Update(s, Feedback{Improved: 1, Diversity: 1})
		if s.C > 1 || s.A > ad.AMax {
			t.Fatalf("step %v: parameter left its upper bound: c=%v a=%v", i, s.C, s.A)
		}
	}
	if s.C != 1 || s.A != ad.AMax {
		t.Errorf("expected c=1 and a=%v after sustained improvement, got c=%v a=%v", ad.AMax, s.C, s.A)
	}
}

func TestAdaptiveCollapseGuard(t *testing.T) {
	ad := Adaptive{Target: 0.2, Step: 0.025, AMax: 0.3, Floor: 1e-9}
	s := &State{MaxGen: 100, C: 0.5, A: 0.2}

	// improvement on a collapsed population must not intensify
	c, a := ad.Update(s, Feedback{Improved: 1, Diversity: 0})
	if c >= s.C || a >= s.A {
		t.Errorf("collapsed population intensified: c %v -> %v, a %v -> %v", s.C, c, s.A, a)
	}

	// the same improvement with spread above the floor does
	c, a = ad.Update(s, Feedback{Improved: 1, Diversity: 1e-3})
	if c <= s.C || a <= s.A {
		t.Errorf("spread population failed to intensify: c %v -> %v, a %v -> %v", s.C, c, s.A, a)
	}
}
