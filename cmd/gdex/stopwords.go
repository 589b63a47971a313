package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/gdex/pkg/gdex/config"
	"github.com/cognicore/gdex/pkg/gdex/lemma"
	"github.com/cognicore/gdex/pkg/gdex/sense"
	"github.com/cognicore/gdex/pkg/gdex/stoplist"
)

func stopwordsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stopwords",
		Usage:     "Suggest stoplist entries: frequent words spread evenly over the senses of a lemma",
		ArgsUsage: "LEMMA",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "min-count", Usage: "Ignore words seen in fewer sentences", Value: 5},
			&cli.Float64Flag{Name: "min-df", Usage: "Minimum sentence share in percent", Value: stoplist.DefaultThresholds().DFPercent},
			&cli.BoolFlag{Name: "yaml", Usage: "Print the suggestions as a stoplist file"},
		}, corpusFlags...),
		Action: func(c *cli.Context) error {
			target := c.Args().First()
			if target == "" {
				return cli.Exit("stopwords: LEMMA required", 2)
			}
			cfg, base, err := loadConfig(c)
			if err != nil {
				return err
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
			clusters, _ := comp.Clusterer.Assign(target, matching, sense.Options{NumClusters: cfg.Cluster.NumClusters})
			log.Printf("%d matching sentences in %d clusters", len(matching), len(clusters))

			th := stoplist.DefaultThresholds()
			th.DFPercent = c.Float64("min-df")
			stats := stoplist.Collect(target, sentences, clusters, c.Int("min-count"))
			candidates := comp.Stoplist.SuggestCandidates(stats, th)

			if c.Bool("yaml") {
				out := config.Stoplist{Terms: make([]string, 0, len(candidates))}
				for _, cand := range candidates {
					out.Terms = append(out.Terms, cand.Token)
				}
				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				return enc.Encode(out)
			}
			for _, cand := range candidates {
				fmt.Printf("%-20s score=%.3f df=%.1f%% npmi=%.3f entropy=%.3f\n",
					cand.Token, cand.Score, cand.Stats.DFPercent, cand.Stats.NPMI, cand.Stats.ClusterEntropy)
			}
			return nil
		},
	}
}
