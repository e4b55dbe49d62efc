// Package pop provides population bookkeeping shared by the butterfly
// solvers: an elite archive of the best points seen across a run and a
// population diversity metric.
package pop

import (
	"math"

	"github.com/petar/GoLLRB/llrb"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
)

type entry struct {
	boa.Point
}

func (e entry) Less(than llrb.Item) bool {
	return e.Val < than.(entry).Val
}

// Archive keeps the k best-valued points observed so far, ordered by value.
// Duplicates are kept; when the archive is full the worst entries are
// discarded first.
type Archive struct {
	tree *llrb.LLRB
	k    int
}

func NewArchive(k int) *Archive {
	if k < 1 {
		k = 1
	}
	return &Archive{tree: llrb.New(), k: k}
}

func (a *Archive) Add(p boa.Point) {
	a.tree.InsertNoReplace(entry{p})
	for a.tree.Len() > a.k {
		a.tree.DeleteMax()
	}
}

func (a *Archive) Len() int { return a.tree.Len() }

// Best returns the lowest-valued archived point, or a point with value
// +infinity when the archive is empty.
func (a *Archive) Best() boa.Point {
	if a.tree.Len() == 0 {
		return boa.Point{Val: math.Inf(1)}
	}
	return a.tree.Min().(entry).Point
}

// Points returns the archived points in ascending value order.
func (a *Archive) Points() []boa.Point {
	if a.tree.Len() == 0 {
		return nil
	}
	points := make([]boa.Point, 0, a.tree.Len())
	a.tree.AscendGreaterOrEqual(a.tree.Min(), func(i llrb.Item) bool {
		points = append(points, i.(entry).Point)
		return true
	})
	return points
}
