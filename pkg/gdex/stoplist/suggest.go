package stoplist

import (
	"math"
	"sort"
	"strings"

	"github.com/cognicore/gdex/pkg/gdex/pmi"
)

// Stats describes how a word behaves around a lemma.
type Stats struct {
	Token          string
	DFPercent      float64 // share of corpus sentences containing the word
	NPMI           float64 // association with the lemma, in [-1, 1]
	ClusterEntropy float64 // normalised spread over sense clusters, in [0, 1]
}

// Thresholds defines criteria for stopword identification.
type Thresholds struct {
	DFPercent      float64 // minimum share of sentences, in percent
	NPMI           float64 // maximum association with the lemma
	ClusterEntropy float64 // minimum spread over sense clusters
}

// DefaultThresholds returns the thresholds used for sentence corpora.
func DefaultThresholds() Thresholds {
	return Thresholds{DFPercent: 20.0, NPMI: 0.1, ClusterEntropy: 0.8}
}

// Candidate is a suggested stopword.
type Candidate struct {
	Token string
	Score float64
	Stats Stats
}

// Collect measures every word seen in at least minCount corpus sentences.
// corpus is the background the document frequency and NPMI are computed
// on; clusters are the sense clusters of the lemma. With fewer than two
// clusters every word gets entropy 1.
func Collect(lemma string, corpus []string, clusters map[int][]string, minCount int) []Stats {
	counter := pmi.NewCounter()
	words := make(map[string]struct{})
	for _, s := range corpus {
		tokens := strings.Fields(s)
		hasTarget := false
		for _, tok := range tokens {
			if strings.Contains(tok, lemma) {
				hasTarget = true
			}
		}
		var rest []string
		for _, tok := range tokens {
			if !strings.Contains(tok, lemma) {
				rest = append(rest, tok)
				words[tok] = struct{}{}
			}
		}
		counter.AddSentence(rest, hasTarget)
	}

	perCluster := make(map[string][]int, len(words))
	ids := make([]int, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i, id := range ids {
		for _, s := range clusters[id] {
			seen := make(map[string]struct{})
			for _, tok := range strings.Fields(s) {
				if _, dup := seen[tok]; dup {
					continue
				}
				seen[tok] = struct{}{}
				if perCluster[tok] == nil {
					perCluster[tok] = make([]int, len(ids))
				}
				perCluster[tok][i]++
			}
		}
	}

	calc := pmi.NewCalculator(1)
	n := counter.Sentences()
	var out []Stats
	for w := range words {
		df := counter.WordCount(w)
		if n == 0 || df < int64(max(minCount, 1)) {
			continue
		}
		out = append(out, Stats{
			Token:          w,
			DFPercent:      100 * float64(df) / float64(n),
			NPMI:           counter.NPMI(calc, w),
			ClusterEntropy: entropy(perCluster[w], len(ids)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

func entropy(counts []int, clusters int) float64 {
	if clusters < 2 {
		return 1
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(clusters))
}

// SuggestCandidates returns the words that are frequent, weakly associated
// with the lemma and spread evenly over its senses, best first. Words
// already on the list are skipped.
func (m *Manager) SuggestCandidates(stats []Stats, th Thresholds) []Candidate {
	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue
		}
		if s.DFPercent < th.DFPercent || s.NPMI > th.NPMI || s.ClusterEntropy < th.ClusterEntropy {
			continue
		}
		score := (s.DFPercent/100.0 + (1.0-s.NPMI)/2 + s.ClusterEntropy) / 3.0
		candidates = append(candidates, Candidate{Token: s.Token, Score: score, Stats: s})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
