package sense

import (
	"sort"
	"sync"

	"github.com/cognicore/gdex/pkg/gdex/colloc"
)

// Sense is one cluster presented as a candidate dictionary sense.
type Sense struct {
	ID           int
	Examples     []string
	Collocations colloc.Ranked
	Count        int
}

// Senses clusters sentences and attaches to every cluster the collocates
// that distinguish it from the others. Senses are ordered by id.
func (c *Clusterer) Senses(lemma string, sentences []string, opts Options, window int, filter colloc.FilterOptions) ([]Sense, error) {
	clusters := c.Disambiguate(lemma, sentences, opts)
	distinct, err := colloc.PerClusterDistinctive(lemma, clusters, window, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Sense, 0, len(clusters))
	for _, id := range clusters.IDs() {
		out = append(out, Sense{
			ID:           id,
			Examples:     clusters[id],
			Collocations: distinct[id],
			Count:        len(clusters[id]),
		})
	}
	return out, nil
}

// Inventory remembers the most recent senses computed for each lemma.
// It is safe for concurrent use.
type Inventory struct {
	mu     sync.RWMutex
	senses map[string][]Sense
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{senses: make(map[string][]Sense)}
}

// Put replaces the senses stored for lemma.
func (inv *Inventory) Put(lemma string, senses []Sense) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.senses[lemma] = senses
}

// Get returns the senses stored for lemma.
func (inv *Inventory) Get(lemma string) ([]Sense, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	s, ok := inv.senses[lemma]
	return s, ok
}

// Patterns returns the collocates of one sense, or the sorted union over
// all senses when senseID is negative. Unknown lemmas or senses give nil.
func (inv *Inventory) Patterns(lemma string, senseID int) []string {
	senses, ok := inv.Get(lemma)
	if !ok {
		return nil
	}
	if senseID >= 0 {
		for _, s := range senses {
			if s.ID == senseID {
				return s.Collocations.Words()
			}
		}
		return nil
	}
	set := make(map[string]struct{})
	for _, s := range senses {
		for _, w := range s.Collocations.Words() {
			set[w] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Examples returns the example sentences of one sense, or of all senses in
// id order when senseID is negative.
func (inv *Inventory) Examples(lemma string, senseID int) []string {
	senses, ok := inv.Get(lemma)
	if !ok {
		return nil
	}
	var out []string
	for _, s := range senses {
		if senseID < 0 || s.ID == senseID {
			out = append(out, s.Examples...)
		}
	}
	return out
}
