package refresher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/refresher"
)

type mockFavorites struct {
	mock.Mock
}

func (m *mockFavorites) LoadAll() ([]string, error) {
	args := m.Called()
	data, _ := args.Get(0).([]string)
	return data, args.Error(1)
}

type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) Refresh(ctx context.Context, city string) (models.SearchResult, error) {
	args := m.Called(ctx, city)
	data, _ := args.Get(0).(models.SearchResult)
	return data, args.Error(1)
}

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) ObserveCronRun(job string, d time.Duration) {
	m.Called(job, d)
}

func (m *mockObserver) IncTechnicalError(kind, severity string) {
	m.Called(kind, severity)
}

func TestRunOnce_RefreshesEveryFavorite(t *testing.T) {
	favs := &mockFavorites{}
	target := &mockTarget{}
	obs := &mockObserver{}

	favs.On("LoadAll").Return([]string{"Tampere", "Oulu", "Turku"}, nil).Once()
	target.On("Refresh", mock.Anything, "Tampere").Return(models.SearchResult{City: "Tampere"}, nil).Once()
	target.On("Refresh", mock.Anything, "Oulu").Return(nil, errors.New("provider down")).Once()
	target.On("Refresh", mock.Anything, "Turku").Return(models.SearchResult{City: "Turku"}, nil).Once()
	obs.On("IncTechnicalError", "refresh_city", "warning").Once()
	obs.On("ObserveCronRun", "refresh_favorites", mock.AnythingOfType("time.Duration")).Once()

	t.Cleanup(func() {
		favs.AssertExpectations(t)
		target.AssertExpectations(t)
		obs.AssertExpectations(t)
	})

	r := refresher.New(favs, target, zerolog.Nop(), "@every 1h", obs)
	r.RunOnce(context.Background())
}

func TestRunOnce_LoadFailure(t *testing.T) {
	favs := &mockFavorites{}
	target := &mockTarget{}
	obs := &mockObserver{}

	favs.On("LoadAll").Return(nil, models.ErrPersistence).Once()
	obs.On("IncTechnicalError", "load_favorites", "critical").Once()
	obs.On("ObserveCronRun", "refresh_favorites", mock.AnythingOfType("time.Duration")).Once()

	t.Cleanup(func() {
		favs.AssertExpectations(t)
		obs.AssertExpectations(t)
	})

	r := refresher.New(favs, target, zerolog.Nop(), "@every 1h", obs)
	r.RunOnce(context.Background())
	target.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestStart_InvalidSchedule(t *testing.T) {
	obs := &mockObserver{}
	obs.On("IncTechnicalError", "cron_schedule_error", "critical").Once()
	t.Cleanup(func() { obs.AssertExpectations(t) })

	r := refresher.New(&mockFavorites{}, &mockTarget{}, zerolog.Nop(), "not a schedule", obs)
	assert.Error(t, r.Start(context.Background()))
	assert.Error(t, r.Stop())
}

func TestStartStop(t *testing.T) {
	r := refresher.New(&mockFavorites{}, &mockTarget{}, zerolog.Nop(), "0 0 3 * * *", &mockObserver{})
	require.NoError(t, r.Start(context.Background()))
	assert.NoError(t, r.Stop())
}
