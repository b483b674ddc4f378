package files

import (
	"path/filepath"
	"sync"
)

const HistoryFile = "search_history.txt"

// HistoryStore persists the ordered search history as given. Deduplication
// is left to the caller.
type HistoryStore struct {
	mu   sync.Mutex
	file lineFile
}

func NewHistoryStore(dir, name string) *HistoryStore {
	return &HistoryStore{file: lineFile{path: filepath.Join(dir, name)}}
}

func (s *HistoryStore) LoadAll() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities, err := s.file.read()
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []string{}
	}
	return cities, nil
}

func (s *HistoryStore) SaveAll(cities []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.write(cities)
}
