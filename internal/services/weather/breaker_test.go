package weather_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/services/weather"
)

var breakerCfg = weather.BreakerConfig{
	TimeInterval: 30 * time.Second,
	TimeTimeOut:  15 * time.Second,
	RepeatNumber: 3,
}

const (
	breakerName = "TestAPI"
	city        = "Tampere"
)

type mockWrapped struct {
	mock.Mock
}

func (m *mockWrapped) Resolve(ctx context.Context, city string) (models.Coordinates, error) {
	args := m.Called(ctx, city)
	data, _ := args.Get(0).(models.Coordinates)
	return data, args.Error(1)
}

func (m *mockWrapped) FetchCurrent(ctx context.Context, coords models.Coordinates) (string, error) {
	args := m.Called(ctx, coords)
	return args.String(0), args.Error(1)
}

func (m *mockWrapped) FetchDailyForecast(ctx context.Context, coords models.Coordinates, count int) (string, error) {
	args := m.Called(ctx, coords, count)
	return args.String(0), args.Error(1)
}

func (m *mockWrapped) FetchHourlyForecast(ctx context.Context, coords models.Coordinates) (string, error) {
	args := m.Called(ctx, coords)
	return args.String(0), args.Error(1)
}

func TestBreakerClient_Success(t *testing.T) {
	wrapped := new(mockWrapped)
	expected := models.Coordinates{Latitude: 61.5, Longitude: 23.8}

	wrapped.On("Resolve", mock.Anything, city).Return(expected, nil).Once()
	wrapped.On("FetchDailyForecast", mock.Anything, expected, 16).Return(`{"list":[]}`, nil).Once()

	bc := weather.NewBreakerClient(breakerName, breakerCfg, wrapped)

	coords, err := bc.Resolve(context.Background(), city)
	require.NoError(t, err)
	assert.Equal(t, expected, coords)

	body, err := bc.FetchDailyForecast(context.Background(), coords, 16)
	require.NoError(t, err)
	assert.Equal(t, `{"list":[]}`, body)

	wrapped.AssertExpectations(t)
}

func TestBreakerClient_TripsOnServerErrors(t *testing.T) {
	wrapped := new(mockWrapped)
	coords := models.Coordinates{}
	serverErr := &models.ProviderError{Endpoint: "weather", StatusCode: http.StatusBadGateway}

	wrapped.On("FetchCurrent", mock.Anything, coords).Return("", serverErr).Times(int(breakerCfg.RepeatNumber))

	bc := weather.NewBreakerClient(breakerName, breakerCfg, wrapped)

	for i := 0; i < int(breakerCfg.RepeatNumber); i++ {
		_, err := bc.FetchCurrent(context.Background(), coords)
		assert.ErrorIs(t, err, serverErr)
	}
	assert.Equal(t, gobreaker.StateOpen, bc.State())

	_, err := bc.FetchCurrent(context.Background(), coords)
	var tErr *models.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), breakerName+" unavailable")

	wrapped.AssertExpectations(t)
	wrapped.AssertNumberOfCalls(t, "FetchCurrent", int(breakerCfg.RepeatNumber))
}

func TestBreakerClient_ClientErrorsDoNotTrip(t *testing.T) {
	wrapped := new(mockWrapped)
	notFound := errors.Join(models.ErrLookupFailure, &models.ProviderError{Endpoint: "weather", StatusCode: http.StatusNotFound})

	wrapped.On("Resolve", mock.Anything, "Atlantis").Return(models.Coordinates{}, notFound).Times(5)

	bc := weather.NewBreakerClient(breakerName, breakerCfg, wrapped)

	for i := 0; i < 5; i++ {
		_, err := bc.Resolve(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, models.ErrLookupFailure)
	}
	assert.Equal(t, gobreaker.StateClosed, bc.State())
	wrapped.AssertExpectations(t)
}

func TestBreakerClient_OpenResolveIsLookupFailure(t *testing.T) {
	wrapped := new(mockWrapped)
	down := &models.TransportError{Endpoint: "weather", Err: errors.New("connection refused")}

	wrapped.On("FetchHourlyForecast", mock.Anything, mock.Anything).Return("", down).Times(int(breakerCfg.RepeatNumber))

	bc := weather.NewBreakerClient(breakerName, breakerCfg, wrapped)
	for i := 0; i < int(breakerCfg.RepeatNumber); i++ {
		_, _ = bc.FetchHourlyForecast(context.Background(), models.Coordinates{})
	}

	_, err := bc.Resolve(context.Background(), city)
	assert.ErrorIs(t, err, models.ErrLookupFailure)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	wrapped.AssertNotCalled(t, "Resolve", mock.Anything, city)
}
