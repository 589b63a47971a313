package pmi

import "math"

// Calculator scores how strongly a collocate is tied to a lemma.
// Counts are sentence-level: a sentence is the unit of co-occurrence.
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a calculator with the given smoothing constant.
// Non-positive values fall back to 1.0.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI returns the smoothed pointwise mutual information
//
//	PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
//
// where N is the number of sentences, N_a and N_b the number of sentences
// containing each word and N_ab the number containing both.
func (c *Calculator) PMI(nAB, nA, nB, n int64) float64 {
	if n == 0 {
		return 0
	}
	num := (float64(nAB) + c.epsilon) * float64(n)
	den := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)
	if den == 0 {
		return 0
	}
	return math.Log(num / den)
}

// NPMI normalizes PMI into [-1, 1] by -log P(a,b).
func (c *Calculator) NPMI(nAB, nA, nB, n int64) float64 {
	if n == 0 || nAB == 0 {
		return 0
	}
	pAB := (float64(nAB) + c.epsilon) / (float64(n) + c.epsilon)
	logPAB := math.Log(pAB)
	if logPAB == 0 {
		return 0
	}
	v := c.PMI(nAB, nA, nB, n) / -logPAB
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
