package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/gdex/pkg/gdex/config"
	"github.com/cognicore/gdex/pkg/gdex/lemma"
	"github.com/cognicore/gdex/pkg/gdex/report"
	"github.com/cognicore/gdex/pkg/gdex/score"
	"github.com/cognicore/gdex/pkg/gdex/store/sqlite"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Cluster senses, extract collocations and pick examples for a lemma",
		ArgsUsage: "LEMMA",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Directory for the JSON and text reports", Value: "output"},
			&cli.IntFlag{Name: "top-n", Usage: "Number of examples (overrides config)"},
			&cli.IntFlag{Name: "clusters", Usage: "Number of sense clusters, 0 = automatic (overrides config)", Value: -1},
			&cli.BoolFlag{Name: "no-diversify", Usage: "Rank examples without spreading them over senses"},
			&cli.BoolFlag{Name: "save", Usage: "Also store the report in the database"},
		}, corpusFlags...),
		Action: func(c *cli.Context) error {
			target := c.Args().First()
			if target == "" {
				return cli.Exit("run: LEMMA required", 2)
			}
			cfg, base, err := loadConfig(c)
			if err != nil {
				return err
			}
			applyRunFlags(c, cfg)

			sentences, err := loadSentences(c, cfg)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			engine, _, err := newEngine(cfg, base)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}

			start := time.Now()
			res, err := engine.Run(c.Context, target, sentences)
			if err != nil {
				return err
			}
			if len(res.Matching) == 0 {
				log.Printf("no sentences found for lemma %q", target)
				return nil
			}
			log.Printf("%d matching sentences, %d senses, %d examples in %s",
				len(res.Matching), len(res.Senses), len(res.Examples), time.Since(start).Round(time.Millisecond))

			rep := report.NewBuilder().Build(res, len(sentences), time.Now())
			if err := rep.WriteText(os.Stdout); err != nil {
				return err
			}
			if err := writeReports(rep, c.String("out")); err != nil {
				return err
			}

			if c.Bool("save") {
				if cfg.Store == "" {
					return cli.Exit("run: --save needs --db or store in config", 2)
				}
				st, err := sqlite.OpenSQLite(c.Context, cfg.Store)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveReport(c.Context, rep); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				log.Printf("saved report %s to %s", rep.ID, cfg.Store)
			}
			return nil
		},
	}
}

// applyRunFlags overrides the config with the run command's flags.
func applyRunFlags(c *cli.Context, cfg *config.Config) {
	if n := c.Int("top-n"); n > 0 {
		cfg.Score.TopN = n
	}
	if k := c.Int("clusters"); k >= 0 {
		cfg.Cluster.NumClusters = k
	}
	if c.Bool("no-diversify") {
		cfg.Score.Diversify = false
	}
}

func writeReports(rep report.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	write := func(ext string, fn func(*os.File) error) error {
		path := rep.FileName(dir, ext)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
		return nil
	}
	if err := write("json", func(f *os.File) error { return rep.WriteJSON(f) }); err != nil {
		return err
	}
	return write("txt", func(f *os.File) error { return rep.WriteText(f) })
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Rank the corpus sentences of a lemma by GDEX score",
		ArgsUsage: "LEMMA",
		Flags: append([]cli.Flag{
			&cli.Float64Flag{Name: "min-score", Usage: "Only print sentences scoring at least this (overrides config)", Value: -1},
			&cli.IntFlag{Name: "limit", Usage: "Maximum sentences printed", Value: 50},
			&cli.BoolFlag{Name: "breakdown", Usage: "Print the weighted criteria of every sentence"},
		}, corpusFlags...),
		Action: func(c *cli.Context) error {
			target := c.Args().First()
			if target == "" {
				return cli.Exit("score: LEMMA required", 2)
			}
			cfg, base, err := loadConfig(c)
			if err != nil {
				return err
			}
			minScore := cfg.Score.MinScore
			if v := c.Float64("min-score"); v >= 0 {
				minScore = v
			}

			sentences, err := loadSentences(c, cfg)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			_, comp, err := newEngine(cfg, base)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			matching, err := lemma.Match(c.Context, target, sentences, comp.Lemmatizer, cfg.Workers)
			if err != nil {
				return err
			}

			ranked, err := comp.Scorer.ScoreExamplesParallel(c.Context, matching, target, cfg.Workers)
			if err != nil {
				return err
			}
			var common map[string]struct{}
			if c.Bool("breakdown") {
				common = score.CommonWords(matching)
			}
			kept := score.AtLeast(ranked, minScore)
			if limit := c.Int("limit"); limit >= 0 && len(kept) > limit {
				kept = kept[:limit]
			}
			for _, sc := range kept {
				fmt.Printf("%.3f\t%s\n", sc.Score, sc.Sentence)
				if common != nil {
					b := comp.Scorer.ScoreBreakdown(sc.Sentence, target, common)
					fmt.Printf("\tlength=%.3f complexity=%.3f completeness=%.3f common=%.3f informativeness=%.3f\n",
						b.Length, b.Complexity, b.Completeness, b.Common, b.Informativeness)
				}
			}
			log.Printf("printed %d of %d matching sentences (min score %.2f)", len(kept), len(matching), minScore)
			return nil
		},
	}
}
