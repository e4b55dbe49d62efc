// Package butterfly implements the butterfly optimization algorithm family
// for box-bounded continuous minimization.  A population of candidate
// solutions shares a fragrance model: each butterfly emits a stimulus
// derived from its fitness and the current sensory modality, and movement is
// a probabilistic mix of global steps toward the best-known position and
// local steps driven by randomly chosen peers.  Five variants differ in how
// the modality coefficients evolve (see the Variant constants).
package butterfly

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
	"github.com/amineHorseman/butterfly-optimization-algorithms/pop"
)

// BadConfigErr is returned for configuration problems detected before a run
// starts: population too small, probabilities outside [0,1], missing bounds.
var BadConfigErr = errors.New("butterfly: bad configuration")

// Defaults follow the parameterization in Arora et al. 2019 (sensory
// modality, power exponent, switch probability) and Zhang et al. 2020 (the
// non-linear exponent curve).
const (
	DefaultModality    = 0.01
	DefaultExponent    = 0.1
	DefaultSwitchProb  = 0.8
	DefaultCrossRate   = 0.2
	DefaultShrink      = 0.9
	DefaultMu          = 2
	DefaultCurveLow    = 0.1
	DefaultCurveHigh   = 0.3
	DefaultAdaptTarget = 0.2
	DefaultAdaptStep   = 0.025
	DefaultAMax        = 0.3
	// DefaultDiversityFloor is the mean centroid distance below which the
	// self-adaptive schedule treats the population as collapsed.
	DefaultDiversityFloor = 1e-9
	DefaultArchive     = 10
)

// Variant selects which member of the algorithm family an Iterator runs.
type Variant int

const (
	// BOA is the standard algorithm: fixed power exponent, linearly
	// increasing sensory modality.
	BOA Variant = iota
	// MBOA intensifies exploitation by drawing local-step peers from a
	// neighborhood that shrinks over generations.
	MBOA
	// ABOA replaces the fixed power exponent with a non-linear curve.
	ABOA
	// SABOA adapts modality and exponent from population feedback.
	SABOA
	// XBOA augments movement with a crossover operator to reintroduce
	// diversity.
	XBOA
)

func (v Variant) String() string {
	switch v {
	case BOA:
		return "BOA"
	case MBOA:
		return "mBOA"
	case ABOA:
		return "ABOA"
	case SABOA:
		return "SABOA"
	case XBOA:
		return "xBOA"
	}
	return fmt.Sprintf("Variant(%v)", int(v))
}

// Butterfly is one candidate solution.  Fragrance is transient: it is
// recomputed from the current value and modality at every generation before
// movement and is never carried across generations.
type Butterfly struct {
	Id        int
	Pos       []float64
	Val       float64
	Fragrance float64
}

type Population []*Butterfly

// NewPopulation wraps seed points into butterflies, preserving order.
func NewPopulation(points []boa.Point) Population {
	p := make(Population, len(points))
	for i, pt := range points {
		p[i] = &Butterfly{Id: i, Pos: pt.Pos(), Val: pt.Val}
	}
	return p
}

func (p Population) Points() []boa.Point {
	points := make([]boa.Point, len(p))
	for i, b := range p {
		points[i] = boa.NewPoint(b.Pos, b.Val)
	}
	return points
}

func (p Population) Best() *Butterfly {
	if len(p) == 0 {
		return nil
	}
	best := p[0]
	for _, b := range p[1:] {
		if b.Val < best.Val {
			best = b
		}
	}
	return best
}

// Reason describes why a run terminated.
type Reason int

const (
	MaxGenerations Reason = iota
	MaxEvaluations
	Stalled
	Aborted
	// Failed marks a run ended by an evaluation or recording error; Run
	// returns the error alongside the result.
	Failed
)

func (r Reason) String() string {
	switch r {
	case MaxGenerations:
		return "generation budget exhausted"
	case MaxEvaluations:
		return "evaluation budget exhausted"
	case Stalled:
		return "no improvement within tolerance"
	case Aborted:
		return "aborted"
	case Failed:
		return "objective evaluation failed"
	}
	return fmt.Sprintf("Reason(%v)", int(r))
}

// Result is the terminal state of a run, consumed by the caller's reporting
// layer.
type Result struct {
	Best   boa.Point
	Ngen   int
	Neval  int
	Reason Reason
	// Degenerate counts butterflies whose fragrance came out non-finite and
	// was zeroed for the generation.  Non-fatal.
	Degenerate int
	// Elite holds the best archived points of the run in ascending value
	// order.
	Elite []boa.Point
}

type Option func(*Iterator)

// SwitchProb sets the probability p of taking a global step instead of a
// local step on each movement draw.
func SwitchProb(p float64) Option {
	return func(it *Iterator) { it.P = p }
}

// Modality sets the initial sensory modality c and power exponent a.
func Modality(c, a float64) Option {
	return func(it *Iterator) {
		it.c0 = c
		it.a0 = a
	}
}

// CrossRate sets the crossover probability for the xBOA variant.
func CrossRate(p float64) Option {
	return func(it *Iterator) { it.PCross = p }
}

// ShrinkRate sets how far the mBOA local-search neighborhood contracts over
// the run: 0 keeps the full ring, 1 narrows it to immediate neighbors by the
// final generation.
func ShrinkRate(s float64) Option {
	return func(it *Iterator) { it.Shrink = s }
}

// Curve sets the ABOA non-linear exponent schedule a(t) = a0 +
// (a1-a0)*sin(pi/mu*(t/Tmax)^2).
func Curve(a0, a1, mu float64) Option {
	return func(it *Iterator) {
		it.curveLow, it.curveHigh, it.mu = a0, a1, mu
	}
}

// Adapt sets the SABOA feedback parameters: the target per-generation
// improvement fraction, the bounded adaptation step, and the upper bound for
// the power exponent.
func Adapt(target, step, amax float64) Option {
	return func(it *Iterator) {
		it.target, it.step, it.amax = target, step, amax
	}
}

// Sched overrides the variant's modality scheduler.
func Sched(s Scheduler) Option {
	return func(it *Iterator) { it.Sched = s }
}

// Rand injects the random source used for seeding, switch draws, peer
// selection, and crossover.  Runs with the same source sequence are
// bit-identical.
func Rand(rng boa.Rng) Option {
	return func(it *Iterator) { it.Rng = rng }
}

// MaxEvals bounds the total number of objective evaluations for Run.  Zero
// means unbounded.
func MaxEvals(n int) Option {
	return func(it *Iterator) { it.MaxEval = n }
}

// EarlyStop makes Run terminate once the best value has failed to improve by
// more than tol for patience consecutive generations.
func EarlyStop(tol float64, patience int) Option {
	return func(it *Iterator) {
		it.Tol = tol
		it.Patience = patience
	}
}

// Report installs a per-generation hook invoked after each generation with
// the generation count, cumulative evaluation count, best point, and elapsed
// wall time for the generation.
func Report(fn func(gen, neval int, best boa.Point, elapsed time.Duration)) Option {
	return func(it *Iterator) { it.ReportFn = fn }
}

// Stop installs a channel checked once per generation boundary; closing it
// aborts the run cooperatively.  There is no mid-generation cancellation.
func Stop(ch <-chan struct{}) Option {
	return func(it *Iterator) { it.StopCh = ch }
}

// DB enables recording of per-generation butterfly positions/values and the
// running best into db (see record.go for the table schemas).
func DB(db *sql.DB) Option {
	return func(it *Iterator) { it.Db = db }
}

// ArchiveSize sets how many elite points are retained for the final report.
func ArchiveSize(k int) Option {
	return func(it *Iterator) { it.archiveSize = k }
}

// Iterator drives one butterfly population through generations.  Exported
// fields may be inspected between Iterate calls but must not be mutated
// during Run.
type Iterator struct {
	Pop Population
	boa.Evaler
	Sched    Scheduler
	Rng      boa.Rng
	P        float64 // switch probability
	PCross   float64 // xBOA crossover probability
	Shrink   float64 // mBOA neighborhood shrink rate
	MaxEval  int
	Tol      float64
	Patience int
	StopCh   <-chan struct{}
	ReportFn func(gen, neval int, best boa.Point, elapsed time.Duration)
	Db       *sql.DB
	Archive  *pop.Archive

	variant Variant
	bounds  *boa.Bounds
	state   State
	best    boa.Point
	prev    []float64 // previous generation values, for improvement feedback
	degen   int

	// scheduler construction parameters, set via options before New builds
	// the variant's scheduler
	c0, a0               float64
	curveLow, curveHigh  float64
	mu                   float64
	target, step, amax   float64
	archiveSize          int
}

// New builds an iterator for the given variant with n butterflies seeded
// uniformly inside b.  maxgen is the generation budget consumed by the
// modality schedules (and by Run as the terminal generation count).  A nil
// evaler defaults to serial evaluation.
func New(ev boa.Evaler, variant Variant, b *boa.Bounds, n, maxgen int, opts ...Option) (*Iterator, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil bounds", BadConfigErr)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: population size %v < 2", BadConfigErr, n)
	}
	if maxgen < 1 {
		return nil, fmt.Errorf("%w: generation budget %v < 1", BadConfigErr, maxgen)
	}
	if ev == nil {
		ev = boa.SerialEvaler{}
	}

	it := &Iterator{
		Evaler:      ev,
		Rng:         boa.Rand,
		P:           DefaultSwitchProb,
		PCross:      DefaultCrossRate,
		Shrink:      DefaultShrink,
		variant:     variant,
		bounds:      b,
		c0:          DefaultModality,
		a0:          DefaultExponent,
		curveLow:    DefaultCurveLow,
		curveHigh:   DefaultCurveHigh,
		mu:          DefaultMu,
		target:      DefaultAdaptTarget,
		step:        DefaultAdaptStep,
		amax:        DefaultAMax,
		archiveSize: DefaultArchive,
		best:        boa.Point{Val: math.Inf(1)},
	}
	for _, opt := range opts {
		opt(it)
	}

	switch {
	case it.P < 0 || it.P > 1:
		return nil, fmt.Errorf("%w: switch probability %v outside [0,1]", BadConfigErr, it.P)
	case it.PCross < 0 || it.PCross > 1:
		return nil, fmt.Errorf("%w: crossover probability %v outside [0,1]", BadConfigErr, it.PCross)
	case it.Shrink < 0 || it.Shrink > 1:
		return nil, fmt.Errorf("%w: shrink rate %v outside [0,1]", BadConfigErr, it.Shrink)
	case it.c0 < 0 || it.c0 > 1:
		return nil, fmt.Errorf("%w: sensory modality %v outside [0,1]", BadConfigErr, it.c0)
	case it.a0 < 0:
		return nil, fmt.Errorf("%w: power exponent %v negative", BadConfigErr, it.a0)
	}

	if it.Sched == nil {
		switch variant {
		case ABOA:
			it.Sched = NonLinear{C0: it.c0, A0: it.curveLow, A1: it.curveHigh, Mu: it.mu}
			it.a0 = it.curveLow
		case SABOA:
			it.Sched = Adaptive{Target: it.target, Step: it.step, AMax: it.amax, Floor: DefaultDiversityFloor}
		default:
			it.Sched = Linear{C0: it.c0, A: it.a0}
		}
	}

	it.state = State{MaxGen: maxgen, C: it.c0, A: it.a0}
	it.Archive = pop.NewArchive(it.archiveSize)
	it.Pop = NewPopulation(b.RandPop(n, it.Rng))
	if err := it.initdb(); err != nil {
		return nil, err
	}
	return it, nil
}

// Best returns the best point seen so far.  It is only written at the
// post-evaluation barrier of each generation (plus accepted crossover
// offspring) and never worsens.
func (it *Iterator) Best() boa.Point { return it.best }

// State returns a copy of the current algorithm state.
func (it *Iterator) State() State { return it.state }

// Degenerate reports how many non-finite fragrances have been zeroed so far.
func (it *Iterator) Degenerate() int { return it.degen }

func (it *Iterator) AddPoint(p boa.Point) {
	if p.Val < it.best.Val {
		it.best = p
	}
}

// Iterate runs one full generation: evaluate every butterfly, update the
// best-known point, compute fragrances with the current modality, let the
// scheduler advance the modality, then move (and for xBOA recombine) every
// butterfly and clamp it back inside bounds.  n counts every objective
// evaluation made, including crossover offspring.
func (it *Iterator) Iterate(obj boa.Objectiver) (best boa.Point, n int, err error) {
	results, n, err := it.Evaler.Eval(obj, it.Pop.Points()...)
	if err != nil {
		return boa.Point{Val: math.Inf(1)}, n, err
	}

	improved := 0
	for i, p := range results {
		if it.prev != nil && p.Val < it.prev[i] {
			improved++
		}
		it.Pop[i].Val = p.Val
	}
	if it.prev == nil {
		it.prev = make([]float64, len(it.Pop))
	}
	for i, p := range results {
		it.prev[i] = p.Val
	}

	// Post-evaluation barrier: the single place the global best is written
	// before movement reads it.
	for _, p := range results {
		if p.Val < it.best.Val {
			it.best = p
		}
		it.Archive.Add(p)
	}
	if it.best.Len() == 0 {
		// No finite value yet (the whole generation was degenerate).  The
		// global step still needs a position to steer toward, so anchor the
		// best on an arbitrary member while its value stays at +Inf.
		it.best = boa.NewPoint(results[0].Pos(), math.Inf(1))
	}
	if err := it.updateDb(); err != nil {
		return it.best, n, err
	}

	fb := Feedback{
		Improved:  float64(improved) / float64(len(it.Pop)),
		Diversity: pop.Diversity(results),
	}

	// Fragrance must be derived from this generation's values and the
	// current modality before the scheduler advances it.
	for _, b := range it.Pop {
		b.Fragrance = it.fragrance(b.Val)
	}
	it.state.C, it.state.A = it.Sched.Update(&it.state, fb)

	radius := it.radius()
	for i := range it.Pop {
		it.move(i, radius)
		if it.variant == XBOA && it.Rng.Float64() < it.PCross {
			nx, err := it.crossover(i, obj)
			n += nx
			if err != nil {
				return it.best, n, err
			}
		}
	}

	it.state.Gen++
	it.state.Neval += n
	return it.best, n, nil
}

// Run iterates until a terminal condition is reached: the generation budget,
// the evaluation budget, a stall longer than the configured patience, or a
// close of the stop channel.  Aborts are honored only at generation
// boundaries.
func (it *Iterator) Run(obj boa.Objectiver) (Result, error) {
	stall := 0
	last := math.Inf(1)
	for {
		select {
		case <-it.StopCh:
			return it.result(Aborted), nil
		default:
		}
		if it.state.Gen >= it.state.MaxGen {
			return it.result(MaxGenerations), nil
		}
		if it.MaxEval > 0 && it.state.Neval >= it.MaxEval {
			return it.result(MaxEvaluations), nil
		}

		start := time.Now()
		best, _, err := it.Iterate(obj)
		if err != nil {
			return it.result(Failed), err
		}
		if it.ReportFn != nil {
			it.ReportFn(it.state.Gen, it.state.Neval, best, time.Since(start))
		}

		if it.Patience > 0 {
			if last-best.Val > it.Tol {
				stall = 0
			} else {
				stall++
			}
			last = best.Val
			if stall >= it.Patience {
				return it.result(Stalled), nil
			}
		}
	}
}

func (it *Iterator) result(r Reason) Result {
	return Result{
		Best:       it.best,
		Ngen:       it.state.Gen,
		Neval:      it.state.Neval,
		Reason:     r,
		Degenerate: it.degen,
		Elite:      it.Archive.Points(),
	}
}
