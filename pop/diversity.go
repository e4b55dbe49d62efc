package pop

import (
	"math"

	"github.com/gonum/matrix/mat64"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
)

// Diversity returns the mean Euclidean distance of the population from its
// centroid.  It is the spread signal consumed by the self-adaptive modality
// scheduler: a collapsed population scores zero.
func Diversity(points []boa.Point) float64 {
	if len(points) == 0 {
		return 0
	}

	n := len(points)
	ndim := points[0].Len()
	m := mat64.NewDense(n, ndim, nil)
	for i, p := range points {
		m.SetRow(i, p.Pos())
	}

	centroid := make([]float64, ndim)
	for j := 0; j < ndim; j++ {
		tot := 0.0
		for i := 0; i < n; i++ {
			tot += m.At(i, j)
		}
		centroid[j] = tot / float64(n)
	}

	tot := 0.0
	for i := 0; i < n; i++ {
		d := 0.0
		for j := 0; j < ndim; j++ {
			diff := m.At(i, j) - centroid[j]
			d += diff * diff
		}
		tot += math.Sqrt(d)
	}
	return tot / float64(n)
}
