// Package sense groups lemma-bearing sentences into statistically inferred
// senses. Clusters are similarity groups, not verified dictionary senses.
package sense

import (
	"fmt"
	"sort"
)

// Defaults for Clusterer. The k range and seed are empirical choices kept
// for compatibility; all of them are tunable through Clusterer fields.
const (
	DefaultSeed          int64 = 42
	DefaultMaxK                = 8
	DefaultMaxPerCluster       = 5
	MinSentences               = 3
	// sentences needed per cluster when k is chosen automatically
	sentencesPerCluster = 3
)

// Vectorizer turns a batch of sentences into fixed-length vectors.
// It fails when the batch yields no usable terms.
type Vectorizer interface {
	Vectorize(sentences []string) ([][]float64, error)
}

// Partitioner splits vectors into k groups and scores a grouping.
// Partition must be deterministic for a fixed seed. Quality returns a
// separation/cohesion ratio in [-1, 1], higher is better.
type Partitioner interface {
	Partition(vectors [][]float64, k int, seed int64) ([]int, error)
	Quality(vectors [][]float64, assignments []int) (float64, error)
}

// Clusters maps a cluster id to its member sentences in input order.
type Clusters map[int][]string

// IDs returns the cluster ids in ascending order.
func (c Clusters) IDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Size returns the number of sentences over all clusters.
func (c Clusters) Size() int {
	n := 0
	for _, s := range c {
		n += len(s)
	}
	return n
}

// Options controls one Disambiguate call.
type Options struct {
	NumClusters   int // 0 selects k automatically
	MaxPerCluster int // sentences kept per cluster; <= 0 means DefaultMaxPerCluster
}

// Clusterer partitions sentences with the injected collaborators.
type Clusterer struct {
	Vectorizer  Vectorizer
	Partitioner Partitioner
	Seed        int64 // 0 means DefaultSeed
	MaxK        int   // upper bound for automatic k; 0 means DefaultMaxK
}

// New creates a clusterer with default seed and k range.
func New(v Vectorizer, p Partitioner) *Clusterer {
	return &Clusterer{Vectorizer: v, Partitioner: p, Seed: DefaultSeed, MaxK: DefaultMaxK}
}

// Disambiguate partitions sentences into sense clusters and truncates each
// cluster to opts.MaxPerCluster sentences, keeping their input order.
//
// Below MinSentences, and whenever vectorizing or partitioning fails, the
// result is a single cluster 0 holding the first MaxPerCluster sentences.
// Disambiguate never returns an error.
func (c *Clusterer) Disambiguate(lemma string, sentences []string, opts Options) Clusters {
	full, _ := c.Assign(lemma, sentences, opts)
	limit := opts.MaxPerCluster
	if limit <= 0 {
		limit = DefaultMaxPerCluster
	}
	out := make(Clusters, len(full))
	for id, members := range full {
		out[id] = truncate(members, limit)
	}
	return out
}

// Assign is Disambiguate without truncation. It also returns the cluster
// label of every input sentence. In the fallback case the grouping holds
// only the first MaxPerCluster sentences and labels is nil.
func (c *Clusterer) Assign(lemma string, sentences []string, opts Options) (Clusters, []int) {
	labels, err := c.labels(sentences, opts.NumClusters)
	if err != nil {
		limit := opts.MaxPerCluster
		if limit <= 0 {
			limit = DefaultMaxPerCluster
		}
		return Clusters{0: truncate(sentences, limit)}, nil
	}
	out := make(Clusters)
	for i, l := range labels {
		out[l] = append(out[l], sentences[i])
	}
	return out, labels
}

// labels runs the whole clustering procedure. Any collaborator failure,
// including a panic, is reported as an error for the caller to degrade on.
func (c *Clusterer) labels(sentences []string, numClusters int) (labels []int, err error) {
	if len(sentences) < MinSentences {
		return nil, errTooFew
	}
	if c.Vectorizer == nil || c.Partitioner == nil {
		return nil, errNoBackend
	}
	defer func() {
		if r := recover(); r != nil {
			labels, err = nil, fmt.Errorf("sense: clustering panicked: %v", r)
		}
	}()

	vectors, err := c.Vectorizer.Vectorize(sentences)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("sense: %d vectors for %d sentences", len(vectors), len(sentences))
	}

	k := numClusters
	if k > 0 {
		k = min(k, len(sentences))
	} else {
		k = c.chooseK(vectors)
	}

	labels, err = c.Partitioner.Partition(vectors, k, c.seed())
	if err != nil {
		return nil, err
	}
	if len(labels) != len(sentences) {
		return nil, fmt.Errorf("sense: %d labels for %d sentences", len(labels), len(sentences))
	}
	for _, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("sense: negative cluster id %d", l)
		}
	}
	return labels, nil
}

// chooseK tries k = 2..min(MaxK, n/3) and keeps the k with the highest
// quality, the smaller k on ties. Candidates whose partition or quality
// fails are skipped. It returns 1 when no candidate is possible or none
// could be scored.
func (c *Clusterer) chooseK(vectors [][]float64) int {
	maxK := c.MaxK
	if maxK <= 0 {
		maxK = DefaultMaxK
	}
	upper := min(maxK, len(vectors)/sentencesPerCluster)
	if upper < 2 {
		return 1
	}

	bestK, found := 1, false
	var bestScore float64
	for k := 2; k <= upper; k++ {
		labels, err := c.Partitioner.Partition(vectors, k, c.seed())
		if err != nil {
			continue
		}
		score, err := c.Partitioner.Quality(vectors, labels)
		if err != nil {
			continue
		}
		if !found || score > bestScore {
			bestK, bestScore, found = k, score, true
		}
	}
	return bestK
}

func (c *Clusterer) seed() int64 {
	if c.Seed == 0 {
		return DefaultSeed
	}
	return c.Seed
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
