package files

import (
	"path/filepath"
	"sync"
)

const LastSearchFile = "last_search.txt"

type LastSearchStore struct {
	mu   sync.Mutex
	file lineFile
}

func NewLastSearchStore(dir, name string) *LastSearchStore {
	return &LastSearchStore{file: lineFile{path: filepath.Join(dir, name)}}
}

func (s *LastSearchStore) Save(city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.write([]string{city})
}

// Load returns the stored city and false when nothing has been saved yet.
func (s *LastSearchStore) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.file.read()
	if err != nil {
		return "", false, err
	}
	if len(lines) == 0 {
		return "", false, nil
	}
	return lines[0], true, nil
}
