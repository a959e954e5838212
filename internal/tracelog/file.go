package tracelog

import (
	"encoding/json"
	"os"
	"sync"
)

// FileStore persists trace records as a JSON array in a single file,
// newest-first. It mirrors the browser client's origin-scoped storage:
// an unavailable or corrupted file is treated as empty, never an error
// to the caller's caller. Concurrent writers are last-write-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store persisting to path. The file is created
// lazily on the first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// load reads the persisted list. Missing file, unreadable file, or data
// that is not a JSON list all yield an empty slice.
func (s *FileStore) load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil
	}
	return recs
}

// Append prepends rec, prunes to MaxEntries, and rewrites the file.
func (s *FileStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := append([]Record{rec}, s.load()...)
	if len(recs) > MaxEntries {
		recs = recs[:MaxEntries]
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// List returns up to limit records newest-first.
func (s *FileStore) List(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.load()
	if limit > len(recs) {
		limit = len(recs)
	}
	out := make([]Record, limit)
	copy(out, recs[:limit])
	return out, nil
}

// Clear removes the backing file. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
