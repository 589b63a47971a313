package score

import (
	"fmt"
	"math"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
)

// Weights is the weight table combining the five criteria.
type Weights struct {
	Length          float64
	Complexity      float64
	Completeness    float64
	Common          float64
	Informativeness float64
}

// DefaultWeights returns the standard GDEX weight table.
func DefaultWeights() Weights {
	return Weights{
		Length:          0.20,
		Complexity:      0.15,
		Completeness:    0.20,
		Common:          0.20,
		Informativeness: 0.25,
	}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Length + w.Complexity + w.Completeness + w.Common + w.Informativeness
}

// Validate checks that every weight is non-negative and that they sum to 1,
// which keeps scores inside [0, 1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"length":          w.Length,
		"complexity":      w.Complexity,
		"completeness":    w.Completeness,
		"common":          w.Common,
		"informativeness": w.Informativeness,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s=%v: %w", name, v, internalerr.ErrInvalidInput)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1: %w", w.Sum(), internalerr.ErrInvalidInput)
	}
	return nil
}
