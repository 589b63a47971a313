package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/report"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	reports map[string]report.Report
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{reports: make(map[string]report.Report)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport stores a copy of r keyed by its id.
func (s *Store) SaveReport(ctx context.Context, r report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("save report: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = copyReport(r)
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return report.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	return copyReport(r), nil
}

func (s *Store) ListReports(ctx context.Context, lemma string, limit int) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []report.Report
	for _, r := range s.reports {
		if lemma == "" || r.Lemma == lemma {
			out = append(out, copyReport(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TopExamples(ctx context.Context, lemma string, limit int) ([]report.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := make(map[string]report.Example)
	for _, r := range s.reports {
		if r.Lemma != lemma {
			continue
		}
		for _, ex := range r.Examples {
			if prev, ok := best[ex.Sentence]; !ok || ex.Score > prev.Score {
				ex.Lemma = lemma
				best[ex.Sentence] = ex
			}
		}
	}
	out := make([]report.Example, 0, len(best))
	for _, ex := range best {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Sentence < out[j].Sentence
		}
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyReport(r report.Report) report.Report {
	r.Clusters = append([]report.Cluster(nil), r.Clusters...)
	r.TopCooccurrences = append([]report.Collocation(nil), r.TopCooccurrences...)
	r.Bigrams = append([]report.Bigram(nil), r.Bigrams...)
	r.Examples = append([]report.Example(nil), r.Examples...)
	return r
}
