// Package tfidf turns sentences into TF-IDF vectors over single terms and
// adjacent term pairs. It is the default sense.Vectorizer.
package tfidf

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// DefaultMaxFeatures bounds the vocabulary size.
const DefaultMaxFeatures = 100

// Vectorizer fits a vocabulary on each batch it is given and returns one
// L2-normalized vector per sentence. It keeps no state between calls.
type Vectorizer struct {
	maxFeatures  int
	maxN         int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// Option configures a Vectorizer.
type Option func(*Vectorizer)

// WithMaxFeatures caps the vocabulary at the n most frequent terms.
func WithMaxFeatures(n int) Option {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// WithStopwords excludes the given words before n-grams are built.
func WithStopwords(words []string) Option {
	return func(v *Vectorizer) {
		for _, w := range words {
			v.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// New creates a vectorizer over unigrams and bigrams.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{
		maxFeatures:  DefaultMaxFeatures,
		maxN:         2,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`),
		stopwords:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Vectorize builds the vocabulary from sentences and returns their
// vectors. It fails with internalerr.ErrVectorize when no term survives
// tokenization.
func (v *Vectorizer) Vectorize(sentences []string) ([][]float64, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("tfidf: empty batch: %w", internalerr.ErrVectorize)
	}

	docs := make([][]string, len(sentences))
	total := make(map[string]int)
	df := make(map[string]int)
	for i, s := range sentences {
		terms := v.terms(s)
		docs[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			total[t]++
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	if len(total) == 0 {
		return nil, fmt.Errorf("tfidf: no terms remain: %w", internalerr.ErrVectorize)
	}

	vocab := v.selectVocabulary(total)
	n := float64(len(sentences))
	idf := make([]float64, len(vocab))
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	out := make([][]float64, len(docs))
	for i, terms := range docs {
		vec := make([]float64, len(vocab))
		for _, t := range terms {
			if j, ok := index[t]; ok {
				vec[j]++
			}
		}
		var norm float64
		for j := range vec {
			vec[j] *= idf[j]
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		out[i] = vec
	}
	return out, nil
}

// Vocabulary returns the terms Vectorize would use for sentences, in
// vector index order.
func (v *Vectorizer) Vocabulary(sentences []string) []string {
	total := make(map[string]int)
	for _, s := range sentences {
		for _, t := range v.terms(s) {
			total[t]++
		}
	}
	return v.selectVocabulary(total)
}

// selectVocabulary keeps the maxFeatures most frequent terms and orders
// them alphabetically.
func (v *Vectorizer) selectVocabulary(total map[string]int) []string {
	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] == total[terms[j]] {
			return terms[i] < terms[j]
		}
		return total[terms[i]] > total[terms[j]]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)
	return terms
}

// terms returns the unigrams followed by the joined adjacent pairs.
func (v *Vectorizer) terms(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	words := raw[:0]
	for _, w := range raw {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := v.stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	out := make([]string, 0, len(words)*v.maxN)
	out = append(out, words...)
	for n := 2; n <= v.maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}
