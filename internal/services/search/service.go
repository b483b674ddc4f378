package search

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

type lookuper interface {
	Lookup(ctx context.Context, city string) (models.SearchResult, error)
}

type favoritesStore interface {
	Add(city string) (bool, error)
	Contains(city string) (bool, error)
	Remove(city string) error
	LoadAll() ([]string, error)
}

type historyStore interface {
	LoadAll() ([]string, error)
	SaveAll(cities []string) error
}

type lastSearchStore interface {
	Save(city string) error
	Load() (string, bool, error)
}

// Service is the entry point for the presentation layer: it normalizes input,
// runs lookups and keeps history, last search and favorites up to date.
type Service struct {
	lookup    lookuper
	favorites favoritesStore
	history   historyStore
	last      lastSearchStore
	logger    zerolog.Logger

	mu sync.Mutex
}

func NewService(
	lookup lookuper,
	favorites favoritesStore,
	history historyStore,
	last lastSearchStore,
	logger zerolog.Logger,
) *Service {
	return &Service{
		lookup:    lookup,
		favorites: favorites,
		history:   history,
		last:      last,
		logger:    logger.With().Str("component", "SearchService").Logger(),
	}
}

// Search looks the city up and records it. A failed lookup records nothing.
// When only the recording fails the full result is still returned together
// with an error wrapping models.ErrPersistence.
func (s *Service) Search(ctx context.Context, raw string) (models.SearchResult, error) {
	city, err := FormatCityName(raw)
	if err != nil {
		return models.SearchResult{}, err
	}

	res, err := s.lookup.Lookup(ctx, city)
	if err != nil {
		return models.SearchResult{}, err
	}

	if err := s.Record(city); err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("search succeeded but was not recorded")
		return res, err
	}
	return res, nil
}

// Record appends city to the history when absent and makes it the last search.
func (s *Service) Record(city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, err := s.history.LoadAll()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if !slices.Contains(hist, city) {
		if err := s.history.SaveAll(append(hist, city)); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}
	if err := s.last.Save(city); err != nil {
		return fmt.Errorf("save last search: %w", err)
	}
	return nil
}

// Restore repeats the last recorded search. The bool is false when there is
// nothing to restore.
func (s *Service) Restore(ctx context.Context) (models.SearchResult, bool, error) {
	city, ok, err := s.last.Load()
	if err != nil {
		return models.SearchResult{}, false, fmt.Errorf("load last search: %w", err)
	}
	if !ok {
		return models.SearchResult{}, false, nil
	}

	s.logger.Info().Ctx(ctx).Str("city", city).Msg("restoring last search")
	res, err := s.Search(ctx, city)
	return res, res.City != "", err
}

func (s *Service) History() ([]string, error) {
	return s.history.LoadAll()
}

func (s *Service) Favorites() ([]string, error) {
	return s.favorites.LoadAll()
}

func (s *Service) AddFavorite(raw string) (string, bool, error) {
	city, err := FormatCityName(raw)
	if err != nil {
		return "", false, err
	}
	added, err := s.favorites.Add(city)
	return city, added, err
}

func (s *Service) RemoveFavorite(raw string) (string, error) {
	city, err := FormatCityName(raw)
	if err != nil {
		return "", err
	}
	return city, s.favorites.Remove(city)
}

func (s *Service) IsFavorite(raw string) (string, bool, error) {
	city, err := FormatCityName(raw)
	if err != nil {
		return "", false, err
	}
	ok, err := s.favorites.Contains(city)
	return city, ok, err
}
