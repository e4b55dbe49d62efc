package boa

import (
	"errors"
	"fmt"
	"math"
)

// BadBoundsErr is returned when a box constraint is malformed.
var BadBoundsErr = errors.New("boa: malformed bounds")

// Bounds is the box constraint for a run.  Valid positions satisfy
// Low[i] <= x[i] <= Up[i] for every dimension i.  Bounds are immutable for
// the duration of a run.
type Bounds struct {
	Low []float64
	Up  []float64
}

// NewBounds validates low and up and returns the box they define.  The
// vectors are copied, so callers may reuse theirs.
func NewBounds(low, up []float64) (*Bounds, error) {
	if len(low) == 0 || len(low) != len(up) {
		return nil, fmt.Errorf("%w: lower and upper vectors have lengths %v and %v", BadBoundsErr, len(low), len(up))
	}
	for i := range low {
		if low[i] > up[i] {
			return nil, fmt.Errorf("%w: low[%v]=%v > up[%v]=%v", BadBoundsErr, i, low[i], i, up[i])
		}
	}
	return &Bounds{
		Low: append([]float64{}, low...),
		Up:  append([]float64{}, up...),
	}, nil
}

func (b *Bounds) Ndim() int { return len(b.Low) }

// Clamp slides each coordinate of pos to the nearest value inside the box.
// pos is modified in place.
func (b *Bounds) Clamp(pos []float64) {
	for i := range pos {
		pos[i] = math.Max(b.Low[i], pos[i])
		pos[i] = math.Min(b.Up[i], pos[i])
	}
}

// In reports whether pos lies inside the box component-wise.
func (b *Bounds) In(pos []float64) bool {
	for i := range pos {
		if pos[i] < b.Low[i] || pos[i] > b.Up[i] {
			return false
		}
	}
	return true
}

// RandPop generates n uniformly random points inside the box using rng (the
// package default source if nil).  Returned points have their values
// initialized to +infinity.
func (b *Bounds) RandPop(n int, rng Rng) []Point {
	if rng == nil {
		rng = Rand
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		pos := make([]float64, b.Ndim())
		for j := range pos {
			pos[j] = b.Low[j] + rng.Float64()*(b.Up[j]-b.Low[j])
		}
		points[i] = NewPoint(pos, math.Inf(1))
	}
	return points
}
