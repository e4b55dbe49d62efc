// Package bench provides benchmark objective functions from
// http://en.wikipedia.org/wiki/Test_functions_for_optimization and a driver
// for testing solvers against them.
package bench

import (
	"fmt"
	"math"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
)

var (
	sin  = math.Sin
	abs  = math.Abs
	sqrt = math.Sqrt
)

var AllFuncs = []Func{
	Sphere{NDim: 2},
	Sphere{NDim: 10},
	Ackley{},
	Schaffer2{},
	Styblinski{NDim: 2},
	Styblinski{NDim: 10},
	Rosenbrock{NDim: 2},
	Eggholder{},
}

type Func interface {
	Eval(v []float64) float64
	Bounds() (low, up []float64)
	Optima() []boa.Point
	Name() string
}

// Sphere is the sum-of-squares function, minimized at the origin.
type Sphere struct {
	NDim int
}

func (fn Sphere) Name() string { return fmt.Sprintf("Sphere_%vD", fn.NDim) }

func (fn Sphere) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += v * v
	}
	return tot
}

func (fn Sphere) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn Sphere) Optima() []boa.Point {
	return []boa.Point{
		boa.NewPoint(make([]float64, fn.NDim), 0),
	}
}

type Ackley struct{}

func (fn Ackley) Name() string { return "Ackley" }

func (fn Ackley) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -20*math.Exp(-0.2*math.Sqrt(0.5*(x*x+y*y))) -
		math.Exp(0.5*(math.Cos(2*math.Pi*x)+math.Cos(2*math.Pi*y))) +
		20 + math.E
}

func (fn Ackley) Bounds() (low, up []float64) {
	return []float64{-5, -5}, []float64{5, 5}
}

func (fn Ackley) Optima() []boa.Point {
	return []boa.Point{
		boa.NewPoint([]float64{0, 0}, 0),
	}
}

type Schaffer2 struct{}

func (fn Schaffer2) Name() string { return "Schaffer2" }

func (fn Schaffer2) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return 0.5 + (math.Pow(sin(x*x-y*y), 2)-0.5)/math.Pow(1+.0001*(x*x+y*y), 2)
}

func (fn Schaffer2) Bounds() (low, up []float64) {
	return []float64{-100, -100}, []float64{100, 100}
}

func (fn Schaffer2) Optima() []boa.Point {
	return []boa.Point{
		boa.NewPoint([]float64{0, 0}, 0),
	}
}

type Eggholder struct{}

func (fn Eggholder) Name() string { return "Eggholder" }

func (fn Eggholder) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -(y+47)*sin(sqrt(abs(y+x/2+47))) - x*sin(sqrt(abs(x-(y+47))))
}

func (fn Eggholder) Bounds() (low, up []float64) {
	return []float64{-512, -512}, []float64{512, 512}
}

func (fn Eggholder) Optima() []boa.Point {
	return []boa.Point{
		boa.NewPoint([]float64{512, 404.2319}, -959.6407),
	}
}

type Styblinski struct {
	NDim int
}

func (fn Styblinski) Name() string { return fmt.Sprintf("Styblinski_%vD", fn.NDim) }

func (fn Styblinski) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += math.Pow(v, 4) - 16*math.Pow(v, 2) + 5*v
	}
	return tot / 2
}

func (fn Styblinski) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn Styblinski) Optima() []boa.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = -2.903534
	}
	return []boa.Point{
		boa.NewPoint(pos, -39.16599*float64(fn.NDim)),
	}
}

type Rosenbrock struct {
	NDim int
}

func (fn Rosenbrock) Name() string { return fmt.Sprintf("Rosenbrock_%vD", fn.NDim) }

func (fn Rosenbrock) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for i := 0; i < fn.NDim-1; i++ {
		tot += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(x[i]-1, 2)
	}
	return tot
}

func (fn Rosenbrock) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -30
		up[i] = 30
	}
	return low, up
}

func (fn Rosenbrock) Optima() []boa.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 1
	}
	return []boa.Point{
		boa.NewPoint(pos, 0),
	}
}

// Benchmark iterates it on fn until the best value is within tol of the
// known optimum (absolute threshold floor 0.001) or either budget runs out.
// err is non-nil only if the solver itself failed.
func Benchmark(it boa.Iterator, fn Func, tol float64, maxeval, maxiter int) (best boa.Point, niter, neval int, err error) {
	obj := boa.SimpleObjectiver(fn.Eval)
	optimum := fn.Optima()[0].Val
	thresh := tol * abs(optimum)
	if thresh < 0.001 {
		thresh = 0.001
	}

	best = boa.Point{Val: math.Inf(1)}
	for neval < maxeval && niter < maxiter {
		var n int
		best, n, err = it.Iterate(obj)
		neval += n
		niter++
		if err != nil {
			return best, niter, neval, err
		} else if abs(optimum-best.Val) < thresh {
			return best, niter, neval, nil
		}
	}
	return best, niter, neval, nil
}

func InsideBounds(p []float64, fn Func) bool {
	low, up := fn.Bounds()
	for i := range p {
		if p[i] < low[i] || p[i] > up[i] {
			return false
		}
	}
	return true
}
