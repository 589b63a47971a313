package kmeans

import (
	"fmt"
	"math"
)

// Quality returns the mean silhouette coefficient of the partition, a
// value in [-1, 1] comparing each point's distance to its own cluster with
// its distance to the nearest other cluster. Singleton clusters score 0.
// It needs between 2 and len(vectors)-1 distinct labels.
func (p *Partitioner) Quality(vectors [][]float64, assignments []int) (float64, error) {
	return Silhouette(vectors, assignments)
}

// Silhouette is the free-function form of Partitioner.Quality.
func Silhouette(vectors [][]float64, labels []int) (float64, error) {
	if err := checkInput(vectors); err != nil {
		return 0, err
	}
	if len(labels) != len(vectors) {
		return 0, fmt.Errorf("silhouette: %d labels for %d vectors: %w", len(labels), len(vectors), ErrDegenerate)
	}
	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 || len(sizes) > len(vectors)-1 {
		return 0, fmt.Errorf("silhouette: %d clusters for %d vectors: %w", len(sizes), len(vectors), ErrDegenerate)
	}

	var total float64
	for i, v := range vectors {
		own := labels[i]
		if sizes[own] == 1 {
			continue
		}
		sums := make(map[int]float64, len(sizes))
		for j, w := range vectors {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(v, w))
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for l, s := range sums {
			if l == own {
				continue
			}
			if mean := s / float64(sizes[l]); mean < b {
				b = mean
			}
		}
		if den := math.Max(a, b); den > 0 {
			total += (b - a) / den
		}
	}
	return total / float64(len(vectors)), nil
}
