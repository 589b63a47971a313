package pmi

// Counter accumulates sentence frequencies for a single target lemma.
// It is built per call and never shared between lemmas.
type Counter struct {
	n      int64            // sentences seen
	target int64            // sentences containing the target
	df     map[string]int64 // sentences containing each word
	joint  map[string]int64 // sentences containing both the target and the word
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{
		df:    make(map[string]int64),
		joint: make(map[string]int64),
	}
}

// AddSentence records one sentence. words is the sentence's token list,
// hasTarget reports whether the target lemma occurs in it. Repeated words
// count once.
func (c *Counter) AddSentence(words []string, hasTarget bool) {
	c.n++
	if hasTarget {
		c.target++
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		c.df[w]++
		if hasTarget {
			c.joint[w]++
		}
	}
}

// Sentences returns the number of sentences recorded.
func (c *Counter) Sentences() int64 { return c.n }

// TargetCount returns the number of sentences containing the target.
func (c *Counter) TargetCount() int64 { return c.target }

// WordCount returns the sentence frequency of w.
func (c *Counter) WordCount(w string) int64 { return c.df[w] }

// JointCount returns the number of sentences holding both the target and w.
func (c *Counter) JointCount(w string) int64 { return c.joint[w] }

// NPMI is a convenience wrapper scoring w against the target.
func (c *Counter) NPMI(calc *Calculator, w string) float64 {
	return calc.NPMI(c.joint[w], c.target, c.df[w], c.n)
}
