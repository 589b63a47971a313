package score

import (
	"strings"
	"unicode/utf8"
)

// Features are the sentence measurements the criteria read.
type Features struct {
	Words       []string
	WordCount   int
	AvgWordLen  float64 // in runes
	FinalRune   rune    // last non-space rune, 0 for empty sentences
	UniqueRatio float64 // distinct words / words
}

// Extract measures a sentence. Words are whitespace separated, so
// punctuation stays attached to the word it follows.
func Extract(sentence string) Features {
	words := strings.Fields(sentence)
	f := Features{Words: words, WordCount: len(words)}
	if len(words) == 0 {
		return f
	}
	runes := 0
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		runes += utf8.RuneCountInString(w)
		unique[w] = struct{}{}
	}
	f.AvgWordLen = float64(runes) / float64(len(words))
	f.UniqueRatio = float64(len(unique)) / float64(len(words))
	f.FinalRune, _ = utf8.DecodeLastRuneInString(strings.TrimSpace(sentence))
	return f
}

// sentenceFinal holds the marks that close a complete sentence: period,
// exclamation, question mark, colon, semicolon, the Arabic question mark
// and the Hebrew sof pasuq.
var sentenceFinal = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, ':': {}, ';': {}, '؟': {}, '׃': {},
}

// LengthScore prefers 10-25 words, tolerates 7-9 and 26-30.
func LengthScore(f Features) float64 {
	switch n := f.WordCount; {
	case n >= 10 && n <= 25:
		return 1.0
	case n >= 7 && n <= 30:
		return 0.7
	default:
		return 0.3
	}
}

// ComplexityScore prefers an average word length of 3-6 runes.
func ComplexityScore(f Features) float64 {
	if f.AvgWordLen >= 3 && f.AvgWordLen <= 6 {
		return 1.0
	}
	return 0.5
}

// CompletenessScore rewards sentences closed by a final punctuation mark.
func CompletenessScore(f Features) float64 {
	if _, ok := sentenceFinal[f.FinalRune]; ok {
		return 1.0
	}
	return 0.3
}

// NeutralCommonScore is used when no common-word set is available.
const NeutralCommonScore = 0.7

// CommonScore is the share of words found in common, capped at 1. An
// empty or nil set yields NeutralCommonScore.
func CommonScore(f Features, common map[string]struct{}) float64 {
	if len(common) == 0 {
		return NeutralCommonScore
	}
	if f.WordCount == 0 {
		return 0
	}
	hits := 0
	for _, w := range f.Words {
		if _, ok := common[w]; ok {
			hits++
		}
	}
	return min(float64(hits)/float64(f.WordCount), 1.0)
}

// InformativenessScore rewards sentences of at least five words with at
// least 60% distinct words.
func InformativenessScore(f Features) float64 {
	if f.WordCount >= 5 && f.UniqueRatio >= 0.6 {
		return 1.0
	}
	return 0.5
}

// CommonWords returns the words seen at least twice across the batch.
func CommonWords(sentences []string) map[string]struct{} {
	freq := make(map[string]int)
	for _, s := range sentences {
		for _, w := range strings.Fields(s) {
			freq[w]++
		}
	}
	common := make(map[string]struct{})
	for w, c := range freq {
		if c >= 2 {
			common[w] = struct{}{}
		}
	}
	return common
}
