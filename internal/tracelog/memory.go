package tracelog

import "sync"

// MemoryStore keeps trace records in process memory, newest-first.
// Safe for concurrent use. Used by tests and ephemeral host contexts.
type MemoryStore struct {
	mu   sync.Mutex
	recs []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append prepends rec and prunes to MaxEntries.
func (s *MemoryStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append([]Record{rec}, s.recs...)
	if len(s.recs) > MaxEntries {
		s.recs = s.recs[:MaxEntries]
	}
	return nil
}

// List returns up to limit records newest-first.
func (s *MemoryStore) List(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.recs) {
		limit = len(s.recs)
	}
	out := make([]Record, limit)
	copy(out, s.recs[:limit])
	return out, nil
}

// Clear drops all records.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = nil
	return nil
}
