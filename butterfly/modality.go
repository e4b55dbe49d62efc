package butterfly

import "math"

// State is the per-run algorithm state read and advanced once per
// generation.
type State struct {
	Gen    int // completed generations (0 during the first)
	MaxGen int // generation budget consumed by the schedules
	Neval  int // cumulative objective evaluations
	C      float64
	A      float64
}

// Feedback carries the population signals gathered at the evaluation
// barrier, consumed by the self-adaptive scheduler.
type Feedback struct {
	// Improved is the fraction of butterflies whose value improved on their
	// previous generation's value.  Zero on the first generation.
	Improved float64
	// Diversity is the mean distance of the population from its centroid.
	Diversity float64
}

// Scheduler advances the sensory modality coefficient c and power exponent a
// across generations.  Update is invoked once per generation, between
// fragrance computation and movement, with s.Gen set to the index of the
// generation in progress; the returned values take effect at the next
// generation's fragrance computation.
type Scheduler interface {
	Update(s *State, fb Feedback) (c, a float64)
}

// schedTime returns the next generation index clamped to the budget, so
// linear schedules never extrapolate past their endpoint.
func schedTime(s *State) float64 {
	t := s.Gen + 1
	if t > s.MaxGen {
		t = s.MaxGen
	}
	return float64(t)
}

// Linear is the standard BOA schedule: the power exponent stays at A and the
// sensory modality grows linearly from C0 at generation zero to 1 at the
// generation budget.  The mBOA and xBOA variants share it, relying on their
// movement-side companions (neighborhood shrink, crossover) instead of a
// different modality rule.
type Linear struct {
	C0 float64
	A  float64
}

func (l Linear) Update(s *State, fb Feedback) (float64, float64) {
	t := schedTime(s)
	c := l.C0 + t*(1-l.C0)/float64(s.MaxGen)
	return c, l.A
}

// NonLinear is the ABOA schedule: the modality follows the same linear ramp
// as Linear while the power exponent traces a(t) = A0 +
// (A1-A0)*sin(pi/Mu*(t/Tmax)^2), a bounded curve that is monotone
// non-decreasing for Mu >= 2.
type NonLinear struct {
	C0 float64
	A0 float64
	A1 float64
	Mu float64
}

func (nl NonLinear) Update(s *State, fb Feedback) (float64, float64) {
	t := schedTime(s)
	frac := t / float64(s.MaxGen)
	c := nl.C0 + t*(1-nl.C0)/float64(s.MaxGen)
	a := nl.A0 + (nl.A1-nl.A0)*math.Sin(math.Pi/nl.Mu*frac*frac)
	return c, a
}

// Adaptive is the SABOA schedule.  Each generation it nudges c and a by at
// most one Step: toward exploitation (larger values) when the improvement
// fraction beats Target and the population still has spread, toward
// exploration (smaller values) otherwise.  A population whose diversity has
// collapsed to Floor or below is pushed back toward exploration even while
// improving, since improvement on a collapsed swarm only deepens the same
// basin.  c stays inside [0,1] and a inside [0,AMax].
type Adaptive struct {
	Target float64
	Step   float64
	AMax   float64
	Floor  float64
}

func (ad Adaptive) Update(s *State, fb Feedback) (float64, float64) {
	c, a := s.C, s.A
	if fb.Improved > ad.Target && fb.Diversity > ad.Floor {
		c += ad.Step
		a += ad.Step
	} else {
		c -= ad.Step
		a -= ad.Step
	}
	return clamp(c, 0, 1), clamp(a, 0, ad.AMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
