// Package lemma selects the corpus sentences that contain a target lemma.
package lemma

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// Lemmatizer returns the lemma of every token in a sentence.
type Lemmatizer interface {
	Lemmas(sentence string) ([]string, error)
}

const batchSize = 128

// Match returns, in input order, the sentences containing lemma. A sentence
// must contain lemma as a substring and, when lm is set, one of its
// lemmas must equal lemma exactly. Without a lemmatizer the substring
// test is applied to whitespace tokens.
func Match(ctx context.Context, lemma string, sentences []string, lm Lemmatizer, workers int) ([]string, error) {
	if lemma == "" {
		return nil, fmt.Errorf("match: empty lemma: %w", internalerr.ErrInvalidInput)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	keep := make([]bool, len(sentences))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(sentences); start += batchSize {
		end := min(len(sentences), start+batchSize)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ok, err := matches(lemma, sentences[i], lm)
				if err != nil {
					return fmt.Errorf("lemmatize sentence %d: %w", i, err)
				}
				keep[i] = ok
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for i, ok := range keep {
		if ok {
			out = append(out, sentences[i])
		}
	}
	return out, nil
}

func matches(lemma, sentence string, lm Lemmatizer) (bool, error) {
	if lm == nil {
		for _, tok := range colloc.Tokens(sentence) {
			if colloc.Matches(tok, lemma) {
				return true, nil
			}
		}
		return false, nil
	}
	if !colloc.Matches(sentence, lemma) {
		return false, nil
	}
	lemmas, err := lm.Lemmas(sentence)
	if err != nil {
		return false, err
	}
	for _, l := range lemmas {
		if l == lemma {
			return true, nil
		}
	}
	return false, nil
}
