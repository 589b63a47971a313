// Package gdex selects good dictionary examples for a lemma: it finds the
// corpus sentences using the lemma, extracts its collocations, splits the
// usages into sense clusters and ranks example sentences with GDEX
// criteria.
package gdex

import (
	"context"
	"fmt"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/kmeans"
	"github.com/cognicore/gdex/pkg/gdex/lemma"
	"github.com/cognicore/gdex/pkg/gdex/score"
	"github.com/cognicore/gdex/pkg/gdex/sense"
	"github.com/cognicore/gdex/pkg/gdex/tfidf"
)

// Defaults for Options fields left at zero.
const (
	DefaultTopCooccurrences = 10
	DefaultMinBigramFreq    = 2
	DefaultTopN             = 20
)

// SenseClusterer groups sentences into senses with their distinctive
// collocations.
type SenseClusterer interface {
	Senses(lemma string, sentences []string, opts sense.Options, window int, filter colloc.FilterOptions) ([]sense.Sense, error)
}

// Options configures an Engine.
type Options struct {
	Clusterer        SenseClusterer   // nil uses TF-IDF and k-means
	Scorer           *score.Scorer    // nil uses the default weights
	Lemmatizer       lemma.Lemmatizer // nil matches on surface forms
	Stoplist         colloc.StopFilter
	Filter           colloc.FilterOptions
	Window           int // global co-occurrence window, 0 = colloc.DefaultWindow
	CollocWindow     int // per-cluster window, 0 = colloc.DefaultClusterWindow
	TopCooccurrences int
	MinBigramFreq    int
	NumClusters      int // 0 selects k automatically
	MaxPerCluster    int
	TopN             int
	Diversify        bool
	Workers          int
}

// Engine runs the example selection pipeline.
type Engine struct {
	opts      Options
	clusterer SenseClusterer
	scorer    *score.Scorer
	inventory *sense.Inventory
}

// New creates an engine, filling unset collaborators with defaults.
func New(opts Options) (*Engine, error) {
	if opts.Window == 0 {
		opts.Window = colloc.DefaultWindow
	}
	if opts.CollocWindow == 0 {
		opts.CollocWindow = colloc.DefaultClusterWindow
	}
	if opts.TopCooccurrences <= 0 {
		opts.TopCooccurrences = DefaultTopCooccurrences
	}
	if opts.MinBigramFreq <= 0 {
		opts.MinBigramFreq = DefaultMinBigramFreq
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Filter.Stoplist == nil && opts.Stoplist != nil {
		opts.Filter.Stoplist = opts.Stoplist
	}

	e := &Engine{opts: opts, clusterer: opts.Clusterer, scorer: opts.Scorer, inventory: sense.NewInventory()}
	if e.clusterer == nil {
		e.clusterer = sense.New(tfidf.New(), kmeans.New())
	}
	if e.scorer == nil {
		var scoreOpts []score.Option
		if d, ok := e.clusterer.(score.Disambiguator); ok {
			scoreOpts = append(scoreOpts, score.WithDisambiguator(d, e.senseOptions()))
		}
		s, err := score.NewScorer(score.DefaultWeights(), scoreOpts...)
		if err != nil {
			return nil, err
		}
		e.scorer = s
	}
	return e, nil
}

// Result is the outcome of one Run.
type Result struct {
	Lemma         string
	CorpusSize    int
	Matching      []string
	Cooccurrences colloc.Ranked
	Bigrams       []colloc.Bigram
	Senses        []sense.Sense
	Examples      []score.Example
}

// Clusters returns the sense clusters keyed by id.
func (r Result) Clusters() sense.Clusters {
	out := make(sense.Clusters, len(r.Senses))
	for _, s := range r.Senses {
		out[s.ID] = s.Examples
	}
	return out
}

// Run selects examples for lemma from sentences. A lemma with no matching
// sentence yields an empty Result.
func (e *Engine) Run(ctx context.Context, target string, sentences []string) (Result, error) {
	res := Result{Lemma: target, CorpusSize: len(sentences)}
	if target == "" {
		return Result{}, fmt.Errorf("run: empty lemma: %w", internalerr.ErrInvalidInput)
	}

	matching, err := lemma.Match(ctx, target, sentences, e.opts.Lemmatizer, e.opts.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("match sentences: %w", err)
	}
	res.Matching = matching
	if len(matching) == 0 {
		return res, nil
	}

	co, err := colloc.WindowCooccurrenceParallel(ctx, target, matching, e.opts.Window, e.opts.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("co-occurrences: %w", err)
	}
	res.Cooccurrences = colloc.Top(co, e.opts.TopCooccurrences)

	if res.Bigrams, err = colloc.BigramCollocations(target, matching, e.opts.MinBigramFreq); err != nil {
		return Result{}, fmt.Errorf("bigrams: %w", err)
	}

	senses, err := e.clusterer.Senses(target, matching, e.senseOptions(), e.opts.CollocWindow, e.opts.Filter)
	if err != nil {
		return Result{}, fmt.Errorf("senses: %w", err)
	}
	res.Senses = senses
	e.inventory.Put(target, senses)

	if res.Examples, err = e.scorer.Generate(target, matching, e.opts.TopN, e.opts.Diversify); err != nil {
		return Result{}, fmt.Errorf("generate examples: %w", err)
	}
	return res, nil
}

// Patterns returns the distinctive collocates of a sense from the last Run
// for lemma. A negative senseID merges all senses.
func (e *Engine) Patterns(lemma string, senseID int) []string {
	return e.inventory.Patterns(lemma, senseID)
}

// Examples returns the cluster members of a sense from the last Run for
// lemma.
func (e *Engine) Examples(lemma string, senseID int) []string {
	return e.inventory.Examples(lemma, senseID)
}

// Scorer exposes the engine's scorer for standalone scoring.
func (e *Engine) Scorer() *score.Scorer { return e.scorer }

func (e *Engine) senseOptions() sense.Options {
	return sense.Options{NumClusters: e.opts.NumClusters, MaxPerCluster: e.opts.MaxPerCluster}
}
