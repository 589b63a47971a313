package colloc

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WindowCooccurrenceParallel is WindowCooccurrence sharded over workers
// goroutines. Counts are summed after all shards finish, so the result is
// identical to the sequential call. workers <= 0 uses GOMAXPROCS.
func WindowCooccurrenceParallel(ctx context.Context, lemma string, sentences []string, window, workers int) (Table, error) {
	if err := validate(lemma, window); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(sentences) {
		workers = len(sentences)
	}
	if workers <= 1 {
		return WindowCooccurrence(lemma, sentences, window)
	}

	shards := make([]Table, workers)
	size := (len(sentences) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * size
		end := min(len(sentences), start+size)
		if start >= end {
			continue
		}
		g.Go(func() error {
			local := make(Table)
			for _, s := range sentences[start:end] {
				if err := ctx.Err(); err != nil {
					return err
				}
				addWindows(local, lemma, Tokens(s), window)
			}
			shards[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(Table)
	for _, shard := range shards {
		for word, c := range shard {
			merged[word] += c
		}
	}
	return merged, nil
}
