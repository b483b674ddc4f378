package files

import (
	"path/filepath"
	"slices"
	"sync"
)

const FavoritesFile = "favorites.txt"

// FavoritesStore is a set of city names kept in insertion order.
// Membership is an exact string match.
type FavoritesStore struct {
	mu   sync.Mutex
	file lineFile
}

func NewFavoritesStore(dir, name string) *FavoritesStore {
	return &FavoritesStore{file: lineFile{path: filepath.Join(dir, name)}}
}

// Add appends city unless it is already present. The returned bool reports
// whether the file changed.
func (s *FavoritesStore) Add(city string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities, err := s.file.read()
	if err != nil {
		return false, err
	}
	if slices.Contains(cities, city) {
		return false, nil
	}
	if err := s.file.write(append(cities, city)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoritesStore) Contains(city string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities, err := s.file.read()
	if err != nil {
		return false, err
	}
	return slices.Contains(cities, city), nil
}

// Remove rewrites the file without city. Removing an absent city is a no-op.
func (s *FavoritesStore) Remove(city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities, err := s.file.read()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(cities), func(c string) bool { return c == city })
	if len(kept) == len(cities) {
		return nil
	}
	return s.file.write(kept)
}

func (s *FavoritesStore) LoadAll() ([]string, error) {
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
