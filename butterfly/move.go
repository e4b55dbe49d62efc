package butterfly

import (
	"math"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
)

// fragrance computes the sensory stimulus c*|val|^a.  The absolute value
// keeps the result real for negative fitness.  A non-finite result (infinite
// fitness, overflow) is zeroed so the butterfly attracts nothing this
// generation, and the degeneracy counter is bumped for the final report.
func (it *Iterator) fragrance(val float64) float64 {
	f := it.state.C * math.Pow(math.Abs(val), it.state.A)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		it.degen++
		return 0
	}
	return f
}

// radius returns the local-search neighborhood radius in ring-index
// distance.  Every variant except mBOA uses the whole population; mBOA
// narrows the ring linearly from half the population toward immediate
// neighbors as generations pass.
func (it *Iterator) radius() int {
	n := len(it.Pop)
	if it.variant != MBOA {
		return n
	}
	t := float64(it.state.Gen)
	tmax := float64(it.state.MaxGen)
	if t > tmax {
		t = tmax
	}
	r := int(math.Round(float64(n) / 2 * (1 - it.Shrink*t/tmax)))
	if r < 1 {
		r = 1
	}
	return r
}

// pickPeers selects two population indexes j, k for butterfly i's local
// step, both different from i and from each other when the population
// permits.  With a radius smaller than half the ring, candidates are limited
// to indexes within that ring distance of i.
func (it *Iterator) pickPeers(i, radius int) (j, k int) {
	n := len(it.Pop)
	if 2*radius >= n {
		j = it.Rng.Intn(n)
		for j == i {
			j = it.Rng.Intn(n)
		}
		k = it.Rng.Intn(n)
		for k == i || (k == j && n > 2) {
			k = it.Rng.Intn(n)
		}
		return j, k
	}

	pick := func() int {
		off := it.Rng.Intn(2*radius) + 1
		if off > radius {
			off = radius - off
		}
		return ((i+off)%n + n) % n
	}
	j = pick()
	k = pick()
	for k == j {
		k = pick()
	}
	return j, k
}

// move computes butterfly i's new position and clamps it inside bounds.
// With probability P the step is global (toward the best-known position),
// otherwise local (driven by two peers).  The scaling scalar r^2 is drawn
// fresh for the step, independent of the switch draw.  The new position
// always replaces the old one; fitness is only consulted again at the next
// generation's evaluation barrier.
func (it *Iterator) move(i, radius int) {
	b := it.Pop[i]
	f := b.Fragrance

	if it.Rng.Float64() < it.P {
		r := it.Rng.Float64()
		rr := r * r
		for d := range b.Pos {
			b.Pos[d] += (rr*it.best.At(d) - b.Pos[d]) * f
		}
	} else {
		j, k := it.pickPeers(i, radius)
		xj, xk := it.Pop[j], it.Pop[k]
		r := it.Rng.Float64()
		rr := r * r
		for d := range b.Pos {
			b.Pos[d] += (rr*xj.Pos[d] - xk.Pos[d]) * f
		}
	}
	it.bounds.Clamp(b.Pos)
}

// crossover recombines butterfly i with a random mate by uniform
// per-dimension swap and evaluates the offspring.  The offspring replaces
// the weaker parent only when its value is not worse than that parent's
// last-known value; otherwise it is discarded.  This greedy acceptance is
// deliberate and unique to the crossover operator.
func (it *Iterator) crossover(i int, obj boa.Objectiver) (nevals int, err error) {
	n := len(it.Pop)
	j := it.Rng.Intn(n)
	for j == i {
		j = it.Rng.Intn(n)
	}
	parent, mate := it.Pop[i], it.Pop[j]

	child := make([]float64, len(parent.Pos))
	for d := range child {
		if it.Rng.Float64() < 0.5 {
			child[d] = parent.Pos[d]
		} else {
			child[d] = mate.Pos[d]
		}
	}
	it.bounds.Clamp(child)

	val, err := obj.Objective(child)
	if err != nil {
		return 1, err
	}

	weak := parent
	if mate.Val > parent.Val {
		weak = mate
	}
	if val <= weak.Val {
		copy(weak.Pos, child)
		weak.Val = val
		p := boa.NewPoint(child, val)
		it.Archive.Add(p)
		if val < it.best.Val {
			it.best = p
		}
	}
	return 1, nil
}
