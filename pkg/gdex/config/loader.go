package config

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
	"github.com/cognicore/gdex/pkg/gdex/kmeans"
	"github.com/cognicore/gdex/pkg/gdex/lemma"
	"github.com/cognicore/gdex/pkg/gdex/score"
	"github.com/cognicore/gdex/pkg/gdex/sense"
	"github.com/cognicore/gdex/pkg/gdex/stoplist"
	"github.com/cognicore/gdex/pkg/gdex/tfidf"
)

// Loader constructs components from a configuration. Relative stoplist and
// dictionary paths are resolved against BaseDir.
type Loader struct {
	BaseDir string
}

// Components holds all configured components.
type Components struct {
	Clusterer  *sense.Clusterer
	Scorer     *score.Scorer
	Lemmatizer lemma.Lemmatizer // nil without a dictionary
	Stoplist   *stoplist.Manager
	Filter     colloc.FilterOptions
}

// Build reads the referenced files and wires the components.
func (l *Loader) Build(cfg *Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comp := &Components{}

	var stops []string
	if cfg.Stoplist != "" {
		sl, err := LoadStoplist(l.resolve(cfg.Stoplist))
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = sl.Terms
	}
	comp.Stoplist = stoplist.NewManager(stops)
	var collocStops colloc.StopFilter = comp.Stoplist

	if cfg.Dictionary != "" {
		dict, err := lemma.LoadDictionary(l.resolve(cfg.Dictionary), cfg.StripPrefixes)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		comp.Lemmatizer = dict
		collocStops = colloc.AnyStop{comp.Stoplist, colloc.NewContentWords(dict)}
	}

	part := kmeans.New()
	part.Restarts = cfg.Cluster.Restarts
	comp.Clusterer = sense.New(
		tfidf.New(tfidf.WithMaxFeatures(cfg.Cluster.MaxFeatures), tfidf.WithStopwords(stops)),
		part,
	)
	comp.Clusterer.Seed = cfg.Cluster.Seed
	comp.Clusterer.MaxK = cfg.Cluster.MaxK

	scorer, err := score.NewScorer(cfg.Score.Weights.Weights(),
		score.WithDisambiguator(comp.Clusterer, sense.Options{
			NumClusters:   cfg.Cluster.NumClusters,
			MaxPerCluster: cfg.Cluster.MaxPerCluster,
		}),
		score.WithNearDuplicate(cfg.Score.NearDuplicate),
	)
	if err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}
	comp.Scorer = scorer

	comp.Filter = colloc.FilterOptions{
		PerClusterCap:      cfg.Colloc.PerClusterCap,
		ResultCap:          cfg.Colloc.ResultCap,
		DominanceThreshold: cfg.Colloc.Dominance,
		Stoplist:           collocStops,
	}
	return comp, nil
}

func (l *Loader) resolve(path string) string {
	if l.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}
