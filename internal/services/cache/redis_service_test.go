package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/services/cache"
)

const (
	keyPrefix = "weather:search:"
	ttl       = 30 * time.Minute
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewStatusResult("OK", args.Error(0))
}

func sampleResult() models.SearchResult {
	zone := time.FixedZone("", 7200)
	return models.SearchResult{
		City:        "Tampere",
		Coordinates: models.Coordinates{Latitude: 61.4991, Longitude: 23.7871},
		Current: models.CurrentConditions{
			Description:     "clear sky",
			TemperatureK:    280.15,
			TemperatureC:    7,
			HumidityPct:     81,
			SunriseEpochSec: 1700000000,
			UTCOffsetSec:    7200,
		},
		Daily: []models.ForecastDay{
			{Date: time.Date(2023, time.November, 15, 0, 0, 0, 0, zone), Description: "snow", MinTempC: -3, RainMm: 2.5},
			{Date: time.Date(2023, time.November, 16, 0, 0, 0, 0, zone), Description: "rain", MaxTempC: 2},
		},
		Hourly:    []models.HourlyEntry{{Hour: "22", Description: "cloudy", TemperatureC: 2, RainMm: 0.2}},
		FetchedAt: time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC),
	}
}

func TestRedisClient_GetMiss(t *testing.T) {
	rdb := &mockRedis{}
	rdb.On("Get", mock.Anything, keyPrefix+"tampere").Return("", redis.Nil).Once()
	t.Cleanup(func() { rdb.AssertExpectations(t) })

	c := cache.NewRedisClient[models.SearchResult](rdb, zerolog.Nop(), keyPrefix, ttl)
	_, err := c.Get(context.Background(), "tampere")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisClient_GetFailure(t *testing.T) {
	rdb := &mockRedis{}
	boom := errors.New("connection refused")
	rdb.On("Get", mock.Anything, keyPrefix+"tampere").Return("", boom).Once()
	t.Cleanup(func() { rdb.AssertExpectations(t) })

	c := cache.NewRedisClient[models.SearchResult](rdb, zerolog.Nop(), keyPrefix, ttl)
	_, err := c.Get(context.Background(), "tampere")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, cache.ErrMiss)
}

func TestRedisClient_SetGetRoundTrip(t *testing.T) {
	rdb := &mockRedis{}
	var stored []byte
	rdb.On("Set", mock.Anything, keyPrefix+"tampere", mock.AnythingOfType("[]uint8"), ttl).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).([]byte)
		}).
		Return(nil).Once()
	t.Cleanup(func() { rdb.AssertExpectations(t) })

	c := cache.NewRedisClient[models.SearchResult](rdb, zerolog.Nop(), keyPrefix, ttl)
	want := sampleResult()
	require.NoError(t, c.Set(context.Background(), "tampere", want))
	require.NotEmpty(t, stored)

	rdb.On("Get", mock.Anything, keyPrefix+"tampere").Return(string(stored), nil).Once()
	got, err := c.Get(context.Background(), "tampere")
	require.NoError(t, err)

	require.Len(t, got.Daily, len(want.Daily))
	for i := range want.Daily {
		assert.True(t, want.Daily[i].Date.Equal(got.Daily[i].Date), "day %d", i)
		_, offset := got.Daily[i].Date.Zone()
		assert.Equal(t, 7200, offset, "day %d keeps the city offset", i)
		assert.Equal(t, want.Daily[i].Date.Format(time.RFC3339), got.Daily[i].Date.Format(time.RFC3339))
	}
	assert.True(t, want.FetchedAt.Equal(got.FetchedAt))

	// times compared above
	for i := range want.Daily {
		want.Daily[i].Date, got.Daily[i].Date = time.Time{}, time.Time{}
	}
	want.FetchedAt, got.FetchedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}

func TestRedisClient_SetFailure(t *testing.T) {
	rdb := &mockRedis{}
	boom := errors.New("READONLY")
	rdb.On("Set", mock.Anything, keyPrefix+"oulu", mock.Anything, ttl).Return(boom).Once()
	t.Cleanup(func() { rdb.AssertExpectations(t) })

	c := cache.NewRedisClient[models.SearchResult](rdb, zerolog.Nop(), keyPrefix, ttl)
	assert.ErrorIs(t, c.Set(context.Background(), "oulu", sampleResult()), boom)
}

func TestRedisClient_GetCorruptValue(t *testing.T) {
	rdb := &mockRedis{}
	rdb.On("Get", mock.Anything, keyPrefix+"tampere").Return("{not json", nil).Once()
	t.Cleanup(func() { rdb.AssertExpectations(t) })

	c := cache.NewRedisClient[models.SearchResult](rdb, zerolog.Nop(), keyPrefix, ttl)
	_, err := c.Get(context.Background(), "tampere")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
	assert.Contains(t, err.Error(), "unmarshal")
}
