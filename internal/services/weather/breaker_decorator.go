package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient guards a provider with a circuit breaker. 4xx answers do
// not count as failures: a bad city name says nothing about provider health.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped provider
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped provider) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			return err == nil || models.IsClientStatus(err)
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) Resolve(ctx context.Context, city string) (models.Coordinates, error) {
	coords, err := execute(b, func() (models.Coordinates, error) {
		return b.wrapped.Resolve(ctx, city)
	})
	if err != nil && !errors.Is(err, models.ErrLookupFailure) {
		return models.Coordinates{}, fmt.Errorf("%w: %q: %w", models.ErrLookupFailure, city, err)
	}
	return coords, err
}

func (b *BreakerClient) FetchCurrent(ctx context.Context, coords models.Coordinates) (string, error) {
	return execute(b, func() (string, error) {
		return b.wrapped.FetchCurrent(ctx, coords)
	})
}

func (b *BreakerClient) FetchDailyForecast(ctx context.Context, coords models.Coordinates, count int) (string, error) {
	return execute(b, func() (string, error) {
		return b.wrapped.FetchDailyForecast(ctx, coords, count)
	})
}

func (b *BreakerClient) FetchHourlyForecast(ctx context.Context, coords models.Coordinates) (string, error) {
	return execute(b, func() (string, error) {
		return b.wrapped.FetchHourlyForecast(ctx, coords)
	})
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &models.TransportError{
				Endpoint: b.name,
				Err:      fmt.Errorf("%s unavailable: %w", b.name, err),
			}
		}
		return zero, err
	}
	res, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}
