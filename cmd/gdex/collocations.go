package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
	"github.com/cognicore/gdex/pkg/gdex/lemma"
)

func collocationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "collocations",
		Usage:     "Print the co-occurrences and bigram collocations of a lemma",
		ArgsUsage: "LEMMA",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "window", Usage: "Co-occurrence window (overrides config)", Value: -1},
			&cli.IntFlag{Name: "top", Usage: "Number of words printed (overrides config)"},
			&cli.BoolFlag{Name: "strength", Usage: "Rank by NPMI against the whole corpus"},
		}, corpusFlags...),
		Action: func(c *cli.Context) error {
			target := c.Args().First()
			if target == "" {
				return cli.Exit("collocations: LEMMA required", 2)
			}
			cfg, base, err := loadConfig(c)
			if err != nil {
				return err
			}
			window := cfg.Colloc.Window
			if w := c.Int("window"); w >= 0 {
				window = w
			}
			top := cfg.Colloc.Top
			if n := c.Int("top"); n > 0 {
				top = n
			}

			sentences, err := loadSentences(c, cfg)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			if c.Bool("strength") {
				assoc, err := colloc.Strength(target, sentences, window)
				if err != nil {
					return err
				}
				for i, a := range assoc {
					if i == top {
						break
					}
					fmt.Printf("%-20s npmi=%.3f joint=%d count=%d\n", a.Word, a.NPMI, a.Joint, a.Count)
				}
				return nil
			}

			_, comp, err := newEngine(cfg, base)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			matching, err := lemma.Match(c.Context, target, sentences, comp.Lemmatizer, cfg.Workers)
			if err != nil {
				return err
			}
			log.Printf("%d sentences contain %q", len(matching), target)

			co, err := colloc.WindowCooccurrenceParallel(c.Context, target, matching, window, cfg.Workers)
			if err != nil {
				return err
			}
			fmt.Println("co-occurrences:")
			for _, w := range colloc.Top(co, top) {
				if comp.Stoplist.IsStop(w.Word) {
					continue
				}
				fmt.Printf("  %s: %d\n", w.Word, w.Count)
			}

			bigrams, err := colloc.BigramCollocations(target, matching, cfg.Colloc.MinFrequency)
			if err != nil {
				return err
			}
			fmt.Println("bigrams:")
			for i, b := range bigrams {
				if i == top {
					break
				}
				fmt.Printf("  %s %s: %d\n", b.Left, b.Right, b.Count)
			}
			return nil
		},
	}
}
