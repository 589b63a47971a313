package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/gdex/pkg/gdex/store/sqlite"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List saved reports, or the best saved examples of a lemma",
		ArgsUsage: "[LEMMA]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum rows printed", Value: 20},
			&cli.BoolFlag{Name: "examples", Usage: "Print the best examples saved for LEMMA"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Store == "" {
				return cli.Exit("history: --db or store in config required", 2)
			}
			st, err := sqlite.OpenSQLite(c.Context, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			target := c.Args().First()
			if c.Bool("examples") {
				if target == "" {
					return cli.Exit("history: --examples needs LEMMA", 2)
				}
				examples, err := st.TopExamples(c.Context, target, c.Int("limit"))
				if err != nil {
					return err
				}
				for _, ex := range examples {
					fmt.Printf("%.3f\t%d\t%s\n", ex.Score, ex.Cluster, ex.Sentence)
				}
				return nil
			}

			reports, err := st.ListReports(c.Context, target, c.Int("limit"))
			if err != nil {
				return err
			}
			for _, r := range reports {
				fmt.Printf("%s\t%s\t%s\tmatching=%d clusters=%d examples=%d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Lemma, r.MatchingCount, len(r.Clusters), len(r.Examples))
			}
			return nil
		},
	}
}
