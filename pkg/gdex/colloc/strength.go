package colloc

import (
	"sort"

	"github.com/cognicore/gdex/pkg/gdex/pmi"
)

// Association is a window collocate together with its sentence-level
// association with the lemma.
type Association struct {
	Word  string
	Count int     // window co-occurrence count
	Joint int64   // sentences holding both the lemma and Word
	NPMI  float64 // normalized PMI in [-1, 1]
}

// Strength ranks the window collocates of lemma by NPMI measured over
// corpus, which should be the background corpus and not only the matching
// sentences: against lemma-only input every word looks independent.
// Order is NPMI descending, then count descending, then word.
func Strength(lemma string, corpus []string, window int) ([]Association, error) {
	counts, err := WindowCooccurrence(lemma, corpus, window)
	if err != nil {
		return nil, err
	}

	counter := pmi.NewCounter()
	for _, s := range corpus {
		tokens := Tokens(s)
		hasTarget := false
		for _, tok := range tokens {
			if Matches(tok, lemma) {
				hasTarget = true
				break
			}
		}
		counter.AddSentence(tokens, hasTarget)
	}

	calc := pmi.NewCalculator(1.0)
	out := make([]Association, 0, len(counts))
	for word, c := range counts {
		out = append(out, Association{
			Word:  word,
			Count: c,
			Joint: counter.JointCount(word),
			NPMI:  counter.NPMI(calc, word),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NPMI != out[j].NPMI {
			return out[i].NPMI > out[j].NPMI
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out, nil
}
