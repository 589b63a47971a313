package stoplist

import (
	"sort"
	"strings"
	"sync"
)

// Manager holds the stopwords dropped from collocation output.
// It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	stops map[string]struct{}
}

// NewManager creates a manager seeded with the given stopwords.
func NewManager(initialStops []string) *Manager {
	m := &Manager{stops: make(map[string]struct{}, len(initialStops))}
	for _, s := range initialStops {
		m.Add(s)
	}
	return m
}

// IsStop reports whether token is a stopword. A nil manager has none.
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.stops[normalize(token)]
	return ok
}

// Add adds a stopword.
func (m *Manager) Add(token string) {
	token = normalize(token)
	if token == "" {
		return
	}
	m.mu.Lock()
	m.stops[token] = struct{}{}
	m.mu.Unlock()
}

// Remove removes a stopword.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	delete(m.stops, normalize(token))
	m.mu.Unlock()
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stops)
}

// All returns all stopwords in sorted order.
func (m *Manager) All() []string {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	m.mu.RUnlock()
	sort.Strings(result)
	return result
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
