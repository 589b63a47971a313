package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/cognicore/gdex/pkg/gdex"
	"github.com/cognicore/gdex/pkg/gdex/config"
	"github.com/cognicore/gdex/pkg/gdex/corpus"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "gdex",
		Usage: "Select good dictionary examples for a lemma from a sentence corpus",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			runCommand(),
			scoreCommand(),
			collocationsCommand(),
			historyCommand(),
			stopwordsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
			EnvVars: []string{"GDEX_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "SQLite database for saved reports (overrides config)",
			EnvVars: []string{"GDEX_DB"},
		},
	}
}

var corpusFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:     "corpus",
		Usage:    "Corpus file or glob pattern, repeatable (e.g. --corpus 'data/**/*.txt')",
		Required: true,
	},
	&cli.IntFlag{
		Name:  "max-lines",
		Usage: "Maximum lines read per line-oriented file (overrides config, 0 = unlimited)",
		Value: -1,
	},
}

// loadConfig reads the config named by --config.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if db := c.String("db"); db != "" {
		cfg.Store = db
	}
	base := ""
	if path != "" {
		base = filepath.Dir(path)
	}
	return cfg, base, nil
}

// loadSentences expands the --corpus patterns and loads every file.
func loadSentences(c *cli.Context, cfg *config.Config) ([]string, error) {
	var paths []string
	for _, pattern := range c.StringSlice("corpus") {
		matches, err := corpus.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			log.Printf("no files match %s", pattern)
		}
		paths = append(paths, matches...)
	}

	opts := corpus.Options{
		MaxLines:  cfg.Corpus.MaxLines,
		Format:    cfg.Corpus.Format,
		Normalize: cfg.Corpus.Normalize,
		Dedupe:    cfg.Corpus.Dedupe,
	}
	if n := c.Int("max-lines"); n >= 0 {
		opts.MaxLines = n
	}
	if cfg.Corpus.PunktModel != "" {
		sp, err := corpus.LoadSplitter(cfg.Corpus.PunktModel)
		if err != nil {
			return nil, err
		}
		opts.Splitter = sp
	}

	sentences, err := corpus.LoadFiles(paths, opts)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d sentences from %d files", len(sentences), len(paths))
	return sentences, nil
}

// newEngine builds the engine described by cfg.
func newEngine(cfg *config.Config, base string) (*gdex.Engine, *config.Components, error) {
	loader := config.Loader{BaseDir: base}
	comp, err := loader.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	e, err := gdex.New(gdex.Options{
		Clusterer:        comp.Clusterer,
		Scorer:           comp.Scorer,
		Lemmatizer:       comp.Lemmatizer,
		Stoplist:         comp.Stoplist,
		Filter:           comp.Filter,
		Window:           cfg.Colloc.Window,
		CollocWindow:     cfg.Colloc.ClusterWindow,
		TopCooccurrences: cfg.Colloc.Top,
		MinBigramFreq:    cfg.Colloc.MinFrequency,
		NumClusters:      cfg.Cluster.NumClusters,
		MaxPerCluster:    cfg.Cluster.MaxPerCluster,
		TopN:             cfg.Score.TopN,
		Diversify:        cfg.Score.Diversify,
		Workers:          cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	return e, comp, nil
}
