// Package score ranks candidate sentences with the GDEX criteria and picks
// a final example set, optionally spread across sense clusters.
package score

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/sense"
)

// Unclustered marks an example that was not picked through a sense cluster.
const Unclustered = -1

// Disambiguator assigns every sentence to a sense cluster. labels[i] is
// the cluster of sentences[i]; a nil labels slice means the clusters hold
// a fallback selection and membership is given by the clusters alone.
type Disambiguator interface {
	Assign(lemma string, sentences []string, opts sense.Options) (clusters sense.Clusters, labels []int)
}

// Scored is a sentence with its batch-relative score. Index is the
// sentence's position in the input batch.
type Scored struct {
	Sentence string
	Score    float64
	Index    int
}

// Example is a selected dictionary example.
type Example struct {
	Sentence string
	Score    float64
	Cluster  int
	Lemma    string
}

// Breakdown holds the weighted contribution of each criterion.
type Breakdown struct {
	Length          float64
	Complexity      float64
	Completeness    float64
	Common          float64
	Informativeness float64
	Total           float64
}

// Scorer computes GDEX scores.
type Scorer struct {
	weights       Weights
	senses        Disambiguator
	senseOpts     sense.Options
	nearDuplicate float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithDisambiguator enables cluster-balanced selection in Generate.
func WithDisambiguator(d Disambiguator, opts sense.Options) Option {
	return func(s *Scorer) {
		s.senses = d
		s.senseOpts = opts
	}
}

// WithNearDuplicate drops a candidate whose Jaro-Winkler similarity to an
// already selected example reaches threshold. 0 disables the check.
func WithNearDuplicate(threshold float64) Option {
	return func(s *Scorer) { s.nearDuplicate = threshold }
}

// NewScorer creates a scorer. The weights must pass Validate.
func NewScorer(w Weights, opts ...Option) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{weights: w}
	for _, opt := range opts {
		opt(s)
	}
	if s.nearDuplicate < 0 || s.nearDuplicate > 1 {
		return nil, fmt.Errorf("near-duplicate threshold %v outside [0,1]: %w", s.nearDuplicate, internalerr.ErrInvalidInput)
	}
	return s, nil
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights { return s.weights }

// ScoreSentence scores one sentence in [0, 1]. common is the batch's
// common-word set; nil means no set is available.
func (s *Scorer) ScoreSentence(sentence, lemma string, common map[string]struct{}) float64 {
	return s.ScoreBreakdown(sentence, lemma, common).Total
}

// ScoreBreakdown is ScoreSentence with the weighted parts exposed.
func (s *Scorer) ScoreBreakdown(sentence, lemma string, common map[string]struct{}) Breakdown {
	f := Extract(sentence)
	b := Breakdown{
		Length:          s.weights.Length * LengthScore(f),
		Complexity:      s.weights.Complexity * ComplexityScore(f),
		Completeness:    s.weights.Completeness * CompletenessScore(f),
		Common:          s.weights.Common * CommonScore(f, common),
		Informativeness: s.weights.Informativeness * InformativenessScore(f),
	}
	b.Total = clamp(b.Length + b.Complexity + b.Completeness + b.Common + b.Informativeness)
	return b
}

// ScoreExamples scores the batch against its own common-word set and
// returns it by score descending, equal scores in input order.
func (s *Scorer) ScoreExamples(sentences []string, lemma string) []Scored {
	common := CommonWords(sentences)
	out := make([]Scored, len(sentences))
	for i, sent := range sentences {
		out[i] = Scored{Sentence: sent, Score: s.ScoreSentence(sent, lemma, common), Index: i}
	}
	rank(out)
	return out
}

// ScoreExamplesParallel is ScoreExamples spread over workers goroutines.
// The output is identical to ScoreExamples. workers <= 0 uses GOMAXPROCS.
func (s *Scorer) ScoreExamplesParallel(ctx context.Context, sentences []string, lemma string, workers int) ([]Scored, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	common := CommonWords(sentences)
	out := make([]Scored, len(sentences))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	const chunk = 256
	for start := 0; start < len(sentences); start += chunk {
		end := min(len(sentences), start+chunk)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = Scored{Sentence: sentences[i], Score: s.ScoreSentence(sentences[i], lemma, common), Index: i}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rank(out)
	return out, nil
}

// FilterByQuality returns, in rank order, the sentences whose
// batch-relative score is at least minScore.
func (s *Scorer) FilterByQuality(sentences []string, lemma string, minScore float64) []string {
	kept := AtLeast(s.ScoreExamples(sentences, lemma), minScore)
	out := make([]string, len(kept))
	for i, sc := range kept {
		out[i] = sc.Sentence
	}
	return out
}

// AtLeast returns the leading entries of a ranking scoring at least
// minScore. ranked must be sorted by score descending.
func AtLeast(ranked []Scored, minScore float64) []Scored {
	n := sort.Search(len(ranked), func(i int) bool { return ranked[i].Score < minScore })
	return ranked[:n]
}

// Generate returns at most topN examples. With diversify set and a
// disambiguator configured, every cluster, in ascending id order, first
// receives max(1, topN/clusters) of its best-ranked sentences; remaining
// slots are then filled from the global ranking and marked Unclustered.
// Otherwise the topN best sentences are returned, marked Unclustered.
func (s *Scorer) Generate(lemma string, sentences []string, topN int, diversify bool) ([]Example, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("generate examples: topN=%d: %w", topN, internalerr.ErrInvalidInput)
	}
	ranked := s.ScoreExamples(sentences, lemma)
	sel := newSelection(lemma, topN, s.nearDuplicate)

	if diversify && s.senses != nil && len(sentences) > 0 {
		clusters, labels := s.senses.Assign(lemma, sentences, s.senseOpts)
		if len(clusters) > 0 {
			s.pickPerCluster(sel, ranked, clusters, labels)
		}
	}
	for _, sc := range ranked {
		if sel.full() {
			break
		}
		sel.add(sc, Unclustered)
	}
	return sel.examples, nil
}

func (s *Scorer) pickPerCluster(sel *selection, ranked []Scored, clusters sense.Clusters, labels []int) {
	perCluster := max(1, sel.limit/len(clusters))
	clusterOf := func(sc Scored) (int, bool) {
		if labels != nil {
			return labels[sc.Index], true
		}
		// fallback grouping: a single cluster holding a prefix of the batch
		for id, members := range clusters {
			if sc.Index < len(members) {
				return id, true
			}
		}
		return 0, false
	}

	for _, id := range clusters.IDs() {
		taken := 0
		for _, sc := range ranked {
			if taken == perCluster || sel.full() {
				break
			}
			if c, ok := clusterOf(sc); !ok || c != id {
				continue
			}
			if sel.add(sc, id) {
				taken++
			}
		}
	}
}

type selection struct {
	lemma     string
	limit     int
	threshold float64
	chosen    map[int]struct{}
	examples  []Example
}

func newSelection(lemma string, limit int, threshold float64) *selection {
	return &selection{lemma: lemma, limit: limit, threshold: threshold, chosen: make(map[int]struct{})}
}

func (s *selection) full() bool { return len(s.examples) >= s.limit }

// add records sc unless it was already chosen or is a near duplicate.
func (s *selection) add(sc Scored, cluster int) bool {
	if _, ok := s.chosen[sc.Index]; ok {
		return false
	}
	if s.threshold > 0 && s.nearDuplicate(sc.Sentence) {
		return false
	}
	s.chosen[sc.Index] = struct{}{}
	s.examples = append(s.examples, Example{Sentence: sc.Sentence, Score: sc.Score, Cluster: cluster, Lemma: s.lemma})
	return true
}

func (s *selection) nearDuplicate(sentence string) bool {
	for _, ex := range s.examples {
		sim, err := edlib.StringsSimilarity(sentence, ex.Sentence, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(sim) >= s.threshold {
			return true
		}
	}
	return false
}

func rank(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
