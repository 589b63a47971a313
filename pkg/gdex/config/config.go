// Package config loads the gdex YAML configuration and builds the engine
// components it describes.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/score"
)

// Corpus formats.
const (
	FormatAuto  = "auto"
	FormatLines = "lines"
	FormatText  = "text"
	FormatHTML  = "html"
)

// Config is the top-level configuration file.
type Config struct {
	Corpus        CorpusConfig  `yaml:"corpus"`
	Cluster       ClusterConfig `yaml:"cluster"`
	Colloc        CollocConfig  `yaml:"colloc"`
	Score         ScoreConfig   `yaml:"score"`
	Stoplist      string        `yaml:"stoplist"`
	Dictionary    string        `yaml:"dictionary"`
	StripPrefixes bool          `yaml:"strip_prefixes"`
	Workers       int           `yaml:"workers"`
	Store         string        `yaml:"store"`
}

// CorpusConfig controls corpus loading.
type CorpusConfig struct {
	MaxLines   int    `yaml:"max_lines"`
	Format     string `yaml:"format"`
	Dedupe     bool   `yaml:"dedupe"`
	Normalize  bool   `yaml:"normalize"`
	PunktModel string `yaml:"punkt_model"`
}

// ClusterConfig controls sense clustering.
type ClusterConfig struct {
	Seed          int64 `yaml:"seed"`
	MaxK          int   `yaml:"max_k"`
	MaxPerCluster int   `yaml:"max_per_cluster"`
	NumClusters   int   `yaml:"num_clusters"`
	MaxFeatures   int   `yaml:"max_features"`
	Restarts      int   `yaml:"restarts"`
}

// CollocConfig controls collocation extraction.
type CollocConfig struct {
	Window        int     `yaml:"window"`
	ClusterWindow int     `yaml:"cluster_window"`
	MinFrequency  int     `yaml:"min_frequency"`
	Top           int     `yaml:"top"`
	Dominance     float64 `yaml:"dominance"`
	PerClusterCap int     `yaml:"per_cluster_cap"`
	ResultCap     int     `yaml:"result_cap"`
}

// ScoreConfig controls example scoring and selection.
type ScoreConfig struct {
	TopN          int           `yaml:"top_n"`
	Diversify     bool          `yaml:"diversify"`
	MinScore      float64       `yaml:"min_score"`
	NearDuplicate float64       `yaml:"near_duplicate"`
	Weights       WeightsConfig `yaml:"weights"`
}

// WeightsConfig mirrors score.Weights.
type WeightsConfig struct {
	Length          float64 `yaml:"length"`
	Complexity      float64 `yaml:"complexity"`
	Completeness    float64 `yaml:"completeness"`
	Common          float64 `yaml:"common"`
	Informativeness float64 `yaml:"informativeness"`
}

// Weights converts to the scorer's weight table.
func (w WeightsConfig) Weights() score.Weights {
	return score.Weights(w)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{MaxLines: 10000, Format: FormatAuto, Dedupe: true},
		Cluster: ClusterConfig{
			Seed:          42,
			MaxK:          8,
			MaxPerCluster: 5,
			MaxFeatures:   100,
			Restarts:      10,
		},
		Colloc: CollocConfig{
			Window:        5,
			ClusterWindow: 2,
			MinFrequency:  2,
			Top:           10,
			Dominance:     0.5,
			PerClusterCap: 20,
			ResultCap:     10,
		},
		Score: ScoreConfig{
			TopN:      20,
			Diversify: true,
			MinScore:  0.5,
			Weights:   WeightsConfig(score.DefaultWeights()),
		},
		Workers: 4,
	}
}

// Load reads a YAML file on top of Default. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), internalerr.ErrInvalidConfig)
	}
	switch c.Corpus.Format {
	case FormatAuto, FormatLines, FormatText, FormatHTML:
	default:
		return bad("corpus.format %q", c.Corpus.Format)
	}
	if c.Corpus.MaxLines < 0 {
		return bad("corpus.max_lines %d", c.Corpus.MaxLines)
	}
	if c.Cluster.MaxK < 2 {
		return bad("cluster.max_k %d, want >= 2", c.Cluster.MaxK)
	}
	if c.Cluster.MaxPerCluster < 1 {
		return bad("cluster.max_per_cluster %d", c.Cluster.MaxPerCluster)
	}
	if c.Cluster.NumClusters < 0 {
		return bad("cluster.num_clusters %d", c.Cluster.NumClusters)
	}
	if c.Cluster.MaxFeatures < 1 || c.Cluster.Restarts < 1 {
		return bad("cluster.max_features and cluster.restarts must be positive")
	}
	if c.Colloc.Window < 0 || c.Colloc.ClusterWindow < 0 {
		return bad("colloc windows must not be negative")
	}
	if c.Colloc.MinFrequency < 1 || c.Colloc.Top < 1 {
		return bad("colloc.min_frequency and colloc.top must be positive")
	}
	if c.Colloc.Dominance <= 0 || c.Colloc.Dominance >= 1 {
		return bad("colloc.dominance %v outside (0,1)", c.Colloc.Dominance)
	}
	if c.Colloc.PerClusterCap < 1 || c.Colloc.ResultCap < 1 {
		return bad("colloc caps must be positive")
	}
	if c.Score.TopN < 1 {
		return bad("score.top_n %d", c.Score.TopN)
	}
	if c.Score.MinScore < 0 || c.Score.MinScore > 1 {
		return bad("score.min_score %v outside [0,1]", c.Score.MinScore)
	}
	if c.Score.NearDuplicate < 0 || c.Score.NearDuplicate > 1 {
		return bad("score.near_duplicate %v outside [0,1]", c.Score.NearDuplicate)
	}
	if err := c.Score.Weights.Weights().Validate(); err != nil {
		return bad("score.weights: %v", err)
	}
	if c.Workers < 0 {
		return bad("workers %d", c.Workers)
	}
	return nil
}

// Stoplist represents the stopword list file.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
