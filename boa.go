// Package boa holds the shared abstractions for the butterfly optimization
// algorithm family: objective functions, evaluation strategies, box bounds,
// and the iterator contract implemented by the butterfly package.
package boa

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// Rng is the minimal random source threaded through the algorithms.
// *math/rand.Rand satisfies it.  Callers needing deterministic replay should
// build iterators with their own seeded generator rather than reseeding the
// package default.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

// Rand is the default random source used when no generator is injected.
var Rand Rng = rand.New(rand.NewSource(1))

type Point struct {
	pos []float64
	Val float64
}

func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

func (p Point) At(i int) float64 { return p.pos[i] }

func (p Point) Len() int { return len(p.pos) }

func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

func hashPoint(p Point) [sha1.Size]byte {
	data := make([]byte, p.Len()*8)
	for i := 0; i < p.Len(); i++ {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(p.At(i)))
	}
	return sha1.Sum(data)
}

type Iterator interface {
	// Iterate runs a single generation of a solver and reports the number of
	// function evaluations n and the best point found so far.
	Iterate(obj Objectiver) (best Point, n int, err error)

	// AddPoint seeds the solver's best-known point if p improves on it.
	AddPoint(p Point)
}

type Evaler interface {
	// Eval evaluates each point using obj and returns the values and number
	// of function evaluations n.  Unevaluated points should not be returned
	// in the results slice.
	Eval(obj Objectiver, points ...Point) (results []Point, n int, err error)
}

type Objectiver interface {
	// Objective evaluates the variables in v and returns the objective
	// function value.  The objective function must be framed so that lower
	// values are better.  If the evaluation fails, positive infinity should
	// be returned along with an error.  Objectives may be stochastic; no
	// component of the engine assumes repeated evaluation of the same
	// position yields the same value.
	Objective(v []float64) (float64, error)
}

type SimpleObjectiver func([]float64) float64

func (so SimpleObjectiver) Objective(v []float64) (float64, error) { return so(v), nil }

type SerialEvaler struct {
	ContinueOnErr bool
}

func (ev SerialEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, 0, len(points))
	for _, p := range points {
		p.Val, err = obj.Objective(p.Pos())
		results = append(results, p)
		if err != nil && !ev.ContinueOnErr {
			return results, len(results), err
		}
	}
	return results, len(results), nil
}

// ParallelEvaler evaluates points concurrently across NWorker goroutines
// (GOMAXPROCS workers if zero).  Eval returns only after every point has
// been evaluated, so callers get a full generation barrier.  Results are
// returned in input order regardless of completion order.
type ParallelEvaler struct {
	NWorker int
}

func (ev ParallelEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	nworker := ev.NWorker
	if nworker <= 0 {
		nworker = runtime.GOMAXPROCS(0)
	}

	results = make([]Point, len(points))
	errs := make([]error, len(points))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < nworker; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				p := points[i]
				p.Val, errs[i] = obj.Objective(p.Pos())
				results[i] = p
			}
		}()
	}
	for i := range points {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return results, len(results), e
		}
	}
	return results, len(results), nil
}

// CacheEvaler wraps another evaler and memoizes values by position.  Only
// use it with deterministic objectives - cached values are returned without
// re-evaluation, which silently breaks stochastic objective functions.
type CacheEvaler struct {
	ev    Evaler
	cache map[[sha1.Size]byte]float64
	// UseCount reports how many evaluations were avoided via cache hits.
	UseCount int
}

func NewCacheEvaler(ev Evaler) *CacheEvaler {
	return &CacheEvaler{
		ev:    ev,
		cache: map[[sha1.Size]byte]float64{},
	}
}

func (ev *CacheEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	misses := make([]int, 0, len(points))
	newp := make([]Point, 0, len(points))
	for i, p := range points {
		if val, ok := ev.cache[hashPoint(p)]; ok {
			points[i].Val = val
			ev.UseCount++
		} else {
			misses = append(misses, i)
			newp = append(newp, p)
		}
	}

	newresults, n, err := ev.ev.Eval(obj, newp...)
	for i, p := range newresults {
		ev.cache[hashPoint(p)] = p.Val
		points[misses[i]].Val = p.Val
	}
	if err != nil {
		// the inner evaler stopped early; drop the misses it never reached
		drop := misses[len(newresults):]
		evaled := make([]Point, 0, len(points))
		for i, p := range points {
			if len(drop) > 0 && i == drop[0] {
				drop = drop[1:]
				continue
			}
			evaled = append(evaled, p)
		}
		return evaled, n, err
	}
	return points, n, nil
}

type ObjectivePrinter struct {
	Objectiver
	Count int
}

func NewObjectivePrinter(obj Objectiver) *ObjectivePrinter {
	return &ObjectivePrinter{Objectiver: obj}
}

func (op *ObjectivePrinter) Objective(v []float64) (float64, error) {
	val, err := op.Objectiver.Objective(v)

	op.Count++
	fmt.Print(op.Count, " ")
	for _, x := range v {
		fmt.Print(x, " ")
	}
	fmt.Println("    ", val)

	return val, err
}
