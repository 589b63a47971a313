package colloc

import (
	"fmt"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// Defaults for the cluster-specific filter. They are empirical and meant
// to be tuned; FilterOptions overrides each one.
const (
	DefaultClusterWindow      = 2
	DefaultPerClusterCap      = 20
	DefaultResultCap          = 10
	DefaultDominanceThreshold = 0.5
)

// StopFilter reports words that should never be returned as collocates.
type StopFilter interface {
	IsStop(word string) bool
}

// FilterOptions tunes PerClusterDistinctive. Zero values select defaults.
type FilterOptions struct {
	PerClusterCap      int     // top words kept per cluster before filtering
	ResultCap          int     // top words kept per cluster after filtering
	DominanceThreshold float64 // share of a word's total a cluster must exceed
	Stoplist           StopFilter
}

func (o FilterOptions) withDefaults() FilterOptions {
	if o.PerClusterCap <= 0 {
		o.PerClusterCap = DefaultPerClusterCap
	}
	if o.ResultCap <= 0 {
		o.ResultCap = DefaultResultCap
	}
	if o.DominanceThreshold <= 0 {
		o.DominanceThreshold = DefaultDominanceThreshold
	}
	return o
}

// PerClusterDistinctive returns, per cluster, the collocates whose use is
// concentrated in that cluster. A word survives in a cluster when it is
// seen in no other cluster, or when the cluster contributes strictly more
// than DominanceThreshold of the word's total count across clusters.
// Words spread evenly over all senses are dropped.
func PerClusterDistinctive(lemma string, clusters map[int][]string, window int, opts FilterOptions) (map[int]Ranked, error) {
	if err := validate(lemma, window); err != nil {
		return nil, fmt.Errorf("distinctive collocations: %w", err)
	}
	if opts.DominanceThreshold < 0 || opts.DominanceThreshold >= 1 {
		return nil, fmt.Errorf("distinctive collocations: dominance %v outside [0,1): %w",
			opts.DominanceThreshold, internalerr.ErrInvalidInput)
	}
	opts = opts.withDefaults()

	perCluster := make(map[int]Ranked, len(clusters))
	index := make(map[string]map[int]int)
	for id, sentences := range clusters {
		counts, err := WindowCooccurrence(lemma, sentences, window)
		if err != nil {
			return nil, err
		}
		if opts.Stoplist != nil {
			for w := range counts {
				if opts.Stoplist.IsStop(w) {
					delete(counts, w)
				}
			}
		}
		top := Top(counts, opts.PerClusterCap)
		perCluster[id] = top
		for _, c := range top {
			if index[c.Word] == nil {
				index[c.Word] = make(map[int]int)
			}
			index[c.Word][id] = c.Count
		}
	}

	result := make(map[int]Ranked, len(perCluster))
	for id, top := range perCluster {
		kept := make(Table)
		for _, c := range top {
			byCluster := index[c.Word]
			if len(byCluster) == 1 {
				kept[c.Word] = c.Count
				continue
			}
			total := 0
			for _, n := range byCluster {
				total += n
			}
			if total > 0 && float64(byCluster[id])/float64(total) > opts.DominanceThreshold {
				kept[c.Word] = c.Count
			}
		}
		result[id] = Top(kept, opts.ResultCap)
	}
	return result, nil
}
