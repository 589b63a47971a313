// Package colloc extracts the words that keep company with a lemma:
// symmetric window co-occurrence, adjacent bigrams, association strength
// and the cluster-specific vocabulary that separates one sense from another.
package colloc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// DefaultWindow is the co-occurrence window used for global statistics.
const DefaultWindow = 5

// Table maps a context word to the number of times it was seen inside a
// lemma window. Tables are built per call and owned by the caller.
type Table map[string]int

// Count is one entry of an ordered Table view.
type Count struct {
	Word  string
	Count int
}

// Ranked is a Table ordered by count descending.
type Ranked []Count

// Table converts the ordered view back into a mapping.
func (r Ranked) Table() Table {
	t := make(Table, len(r))
	for _, c := range r {
		t[c.Word] = c.Count
	}
	return t
}

// Words returns the words of the view in order.
func (r Ranked) Words() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Word
	}
	return out
}

// Bigram is an adjacent word pair in which one side holds the lemma.
type Bigram struct {
	Left  string
	Right string
	Count int
}

// Tokens splits a sentence on whitespace.
func Tokens(sentence string) []string {
	return strings.Fields(sentence)
}

// Matches reports whether token carries the lemma: equal to it or
// containing it, so that prefixed surface forms are counted too.
func Matches(token, lemma string) bool {
	return strings.Contains(token, lemma)
}

// WindowCooccurrence counts the tokens found up to window positions on
// either side of every token carrying the lemma. Windows are clipped at the
// sentence edges and the matched token itself is never counted. Several
// matches in one sentence contribute several, possibly overlapping, windows.
func WindowCooccurrence(lemma string, sentences []string, window int) (Table, error) {
	if err := validate(lemma, window); err != nil {
		return nil, err
	}
	counts := make(Table)
	for _, s := range sentences {
		addWindows(counts, lemma, Tokens(s), window)
	}
	return counts, nil
}

func addWindows(counts Table, lemma string, tokens []string, window int) {
	for i, tok := range tokens {
		if !Matches(tok, lemma) {
			continue
		}
		start := max(0, i-window)
		end := min(len(tokens), i+window+1)
		for j := start; j < end; j++ {
			if j == i {
				continue
			}
			counts[tokens[j]]++
		}
	}
}

// BigramCollocations counts (left neighbour, match) and (match, right
// neighbour) pairs, drops pairs seen fewer than minFrequency times and
// returns the rest by count descending. Equal counts keep the order in
// which the pair was first seen. minFrequency below 1 is treated as 1.
func BigramCollocations(lemma string, sentences []string, minFrequency int) ([]Bigram, error) {
	if strings.TrimSpace(lemma) == "" {
		return nil, fmt.Errorf("bigram collocations: empty lemma: %w", internalerr.ErrInvalidInput)
	}
	if minFrequency < 1 {
		minFrequency = 1
	}

	type key struct{ l, r string }
	index := make(map[key]int)
	var pairs []Bigram
	add := func(l, r string) {
		k := key{l, r}
		if i, ok := index[k]; ok {
			pairs[i].Count++
			return
		}
		index[k] = len(pairs)
		pairs = append(pairs, Bigram{Left: l, Right: r, Count: 1})
	}

	for _, s := range sentences {
		tokens := Tokens(s)
		for i, tok := range tokens {
			if !Matches(tok, lemma) {
				continue
			}
			if i > 0 {
				add(tokens[i-1], tok)
			}
			if i < len(tokens)-1 {
				add(tok, tokens[i+1])
			}
		}
	}

	out := pairs[:0]
	for _, p := range pairs {
		if p.Count >= minFrequency {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out, nil
}

// Top returns the n most frequent words of t, ties broken by word.
// n <= 0 returns every word.
func Top(t Table, n int) Ranked {
	out := make(Ranked, 0, len(t))
	for w, c := range t {
		out = append(out, Count{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Word < out[j].Word
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func validate(lemma string, window int) error {
	if strings.TrimSpace(lemma) == "" {
		return fmt.Errorf("window co-occurrence: empty lemma: %w", internalerr.ErrInvalidInput)
	}
	if window < 0 {
		return fmt.Errorf("window co-occurrence: negative window %d: %w", window, internalerr.ErrInvalidInput)
	}
	return nil
}
