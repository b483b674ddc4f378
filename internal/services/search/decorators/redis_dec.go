package decorators

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

type lookuper interface {
	Lookup(ctx context.Context, city string) (models.SearchResult, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedLookup serves lookups from the cache when possible. Cache failures
// are logged and otherwise ignored.
type CachedLookup struct {
	inner  lookuper
	cache  cacheClient[models.SearchResult]
	logger zerolog.Logger
}

func NewCachedLookup(
	inner lookuper,
	cache cacheClient[models.SearchResult],
	logger zerolog.Logger,
) *CachedLookup {
	return &CachedLookup{
		inner:  inner,
		cache:  cache,
		logger: logger.With().Str("component", "CachedLookup").Logger(),
	}
}

func cacheKey(city string) string {
	return strings.ToLower(city)
}

func (s *CachedLookup) Lookup(ctx context.Context, city string) (models.SearchResult, error) {
	key := cacheKey(city)

	res, err := s.cache.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("city", city).
			Msg("cache hit")
		return res, nil
	}
	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Err(err).
		Msg("cache miss")

	return s.Refresh(ctx, city)
}

// Refresh bypasses the cache, runs the lookup and stores the fresh result.
func (s *CachedLookup) Refresh(ctx context.Context, city string) (models.SearchResult, error) {
	res, err := s.inner.Lookup(ctx, city)
	if err != nil {
		return models.SearchResult{}, err
	}

	if err := s.cache.Set(ctx, cacheKey(city), res); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Err(err).
			Msg("cache set failed")
	}
	return res, nil
}
