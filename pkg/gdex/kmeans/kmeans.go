// Package kmeans partitions feature vectors with seeded k-means++ and
// measures partition quality with the silhouette coefficient. It is the
// default sense.Partitioner.
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// Defaults mirror the usual k-means settings.
const (
	DefaultRestarts  = 10
	DefaultMaxIter   = 300
	DefaultTolerance = 1e-4
)

// ErrDegenerate is returned when a partition cannot be scored.
var ErrDegenerate = errors.New("kmeans: degenerate partition")

// Partitioner runs Lloyd iterations from k-means++ seeds and keeps the
// restart with the lowest inertia.
type Partitioner struct {
	Restarts  int
	MaxIter   int
	Tolerance float64
}

// New returns a partitioner with default settings.
func New() *Partitioner {
	return &Partitioner{
		Restarts:  DefaultRestarts,
		MaxIter:   DefaultMaxIter,
		Tolerance: DefaultTolerance,
	}
}

// Partition assigns each vector to one of k groups. The same vectors, k
// and seed always give the same labels. Labels are renumbered in order of
// first appearance, so they are dense and start at 0.
func (p *Partitioner) Partition(vectors [][]float64, k int, seed int64) ([]int, error) {
	if err := checkInput(vectors); err != nil {
		return nil, err
	}
	if k < 1 || k > len(vectors) {
		return nil, fmt.Errorf("kmeans: k=%d for %d vectors: %w", k, len(vectors), internalerr.ErrInvalidInput)
	}
	if k == 1 {
		return make([]int, len(vectors)), nil
	}

	restarts, maxIter, tol := p.settings()
	rng := rand.New(rand.NewSource(seed))

	var best []int
	bestInertia := math.Inf(1)
	for r := 0; r < restarts; r++ {
		labels, inertia := p.run(vectors, k, rng, maxIter, tol)
		if inertia < bestInertia {
			bestInertia = inertia
			best = labels
		}
	}
	return relabel(best), nil
}

func (p *Partitioner) settings() (int, int, float64) {
	restarts, maxIter, tol := p.Restarts, p.MaxIter, p.Tolerance
	if restarts <= 0 {
		restarts = DefaultRestarts
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return restarts, maxIter, tol
}

func (p *Partitioner) run(vectors [][]float64, k int, rng *rand.Rand, maxIter int, tol float64) ([]int, float64) {
	centroids := seedPlusPlus(vectors, k, rng)
	labels := make([]int, len(vectors))
	dim := len(vectors[0])

	for iter := 0; iter < maxIter; iter++ {
		for i, v := range vectors {
			labels[i], _ = nearest(v, centroids)
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for j, x := range v {
				next[c][j] += x
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// empty cluster: restart it on the point worst served
				far := farthest(vectors, centroids, labels)
				copy(next[c], vectors[far])
				labels[far] = c
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}

		var shift float64
		for c := range centroids {
			shift += sqDist(centroids[c], next[c])
		}
		centroids = next
		if shift <= tol*tol {
			break
		}
	}

	var inertia float64
	for i, v := range vectors {
		labels[i], _ = nearest(v, centroids)
		inertia += sqDist(v, centroids[labels[i]])
	}
	return labels, inertia
}

// seedPlusPlus picks initial centroids with probability proportional to
// squared distance from the closest centroid chosen so far.
func seedPlusPlus(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := vectors[rng.Intn(len(vectors))]
	centroids = append(centroids, clone(first))

	d := make([]float64, len(vectors))
	for len(centroids) < k {
		var sum float64
		for i, v := range vectors {
			_, d[i] = nearest(v, centroids)
			sum += d[i]
		}
		if sum == 0 {
			centroids = append(centroids, clone(vectors[rng.Intn(len(vectors))]))
			continue
		}
		target := rng.Float64() * sum
		pick := len(vectors) - 1
		var acc float64
		for i := range vectors {
			acc += d[i]
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, clone(vectors[pick]))
	}
	return centroids
}

func nearest(v []float64, centroids [][]float64) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(v, centroid); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}

func farthest(vectors, centroids [][]float64, labels []int) int {
	idx, maxD := 0, -1.0
	for i, v := range vectors {
		if d := sqDist(v, centroids[labels[i]]); d > maxD {
			idx, maxD = i, d
		}
	}
	return idx
}

func relabel(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = len(mapping)
			mapping[l] = id
		}
		out[i] = id
	}
	return out
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func checkInput(vectors [][]float64) error {
	if len(vectors) == 0 {
		return fmt.Errorf("kmeans: no vectors: %w", internalerr.ErrInvalidInput)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("kmeans: zero-length vectors: %w", internalerr.ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("kmeans: vector %d has length %d, want %d: %w", i, len(v), dim, internalerr.ErrInvalidInput)
		}
	}
	return nil
}
