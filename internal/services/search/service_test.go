package search_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/repository/files"
	"github.com/Nazarious-ucu/weather-app/internal/services/search"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Lookup(ctx context.Context, city string) (models.SearchResult, error) {
	args := m.Called(ctx, city)
	data, _ := args.Get(0).(models.SearchResult)
	return data, args.Error(1)
}

type failingHistory struct{}

func (failingHistory) LoadAll() ([]string, error) { return nil, nil }

func (failingHistory) SaveAll([]string) error {
	return fmt.Errorf("%w: disk full", models.ErrPersistence)
}

type stores struct {
	favorites *files.FavoritesStore
	history   *files.HistoryStore
	last      *files.LastSearchStore
}

func newStores(t *testing.T) stores {
	dir := t.TempDir()
	return stores{
		favorites: files.NewFavoritesStore(dir, files.FavoritesFile),
		history:   files.NewHistoryStore(dir, files.HistoryFile),
		last:      files.NewLastSearchStore(dir, files.LastSearchFile),
	}
}

func TestService_SearchRecordsHistoryOnce(t *testing.T) {
	st := newStores(t)
	l := &mockLookup{}
	l.On("Lookup", mock.Anything, "Tampere").Return(models.SearchResult{City: "Tampere"}, nil).Twice()
	l.On("Lookup", mock.Anything, "Oulu").Return(models.SearchResult{City: "Oulu"}, nil).Once()
	t.Cleanup(func() { l.AssertExpectations(t) })

	svc := search.NewService(l, st.favorites, st.history, st.last, zerolog.Nop())
	ctx := context.Background()

	for _, q := range []string{"tampere", "Oulu", "  TAMPERE "} {
		_, err := svc.Search(ctx, q)
		require.NoError(t, err)
	}

	hist, err := svc.History()
	require.NoError(t, err)
	assert.Equal(t, []string{"Tampere", "Oulu"}, hist)

	last, ok, err := st.last.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Tampere", last)
}

func TestService_SearchFailureRecordsNothing(t *testing.T) {
	st := newStores(t)
	l := &mockLookup{}
	l.On("Lookup", mock.Anything, "Atlantis").Return(nil, models.ErrLookupFailure).Once()
	t.Cleanup(func() { l.AssertExpectations(t) })

	svc := search.NewService(l, st.favorites, st.history, st.last, zerolog.Nop())

	_, err := svc.Search(context.Background(), "atlantis")
	assert.ErrorIs(t, err, models.ErrLookupFailure)

	hist, err := svc.History()
	require.NoError(t, err)
	assert.Empty(t, hist)

	_, ok, err := st.last.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_SearchEmptyCity(t *testing.T) {
	st := newStores(t)
	l := &mockLookup{}
	svc := search.NewService(l, st.favorites, st.history, st.last, zerolog.Nop())

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrEmptyCity)
	l.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestService_PersistenceFailureKeepsResult(t *testing.T) {
	st := newStores(t)
	l := &mockLookup{}
	l.On("Lookup", mock.Anything, "Tampere").Return(models.SearchResult{City: "Tampere"}, nil).Once()
	t.Cleanup(func() { l.AssertExpectations(t) })

	svc := search.NewService(l, st.favorites, failingHistory{}, st.last, zerolog.Nop())

	res, err := svc.Search(context.Background(), "Tampere")
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Equal(t, "Tampere", res.City)
}

func TestService_Restore(t *testing.T) {
	st := newStores(t)
	l := &mockLookup{}
	svc := search.NewService(l, st.favorites, st.history, st.last, zerolog.Nop())
	ctx := context.Background()

	_, ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.last.Save("Oulu"))
	l.On("Lookup", mock.Anything, "Oulu").Return(models.SearchResult{City: "Oulu"}, nil).Once()
	t.Cleanup(func() { l.AssertExpectations(t) })

	res, ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Oulu", res.City)
}

func TestService_RestoreLookupFails(t *testing.T) {
	st := newStores(t)
	require.NoError(t, st.last.Save("Oulu"))

	l := &mockLookup{}
	l.On("Lookup", mock.Anything, "Oulu").Return(nil, errors.New("provider down")).Once()
	t.Cleanup(func() { l.AssertExpectations(t) })

	svc := search.NewService(l, st.favorites, st.history, st.last, zerolog.Nop())

	_, ok, err := svc.Restore(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestService_Favorites(t *testing.T) {
	st := newStores(t)
	svc := search.NewService(&mockLookup{}, st.favorites, st.history, st.last, zerolog.Nop())

	city, added, err := svc.AddFavorite("  tampere")
	require.NoError(t, err)
	assert.Equal(t, "Tampere", city)
	assert.True(t, added)

	_, added, err = svc.AddFavorite("TAMPERE")
	require.NoError(t, err)
	assert.False(t, added)

	_, ok, err := svc.IsFavorite("tampere")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.RemoveFavorite("Tampere")
	require.NoError(t, err)

	favs, err := svc.Favorites()
	require.NoError(t, err)
	assert.Empty(t, favs)

	_, _, err = svc.AddFavorite("")
	assert.ErrorIs(t, err, models.ErrEmptyCity)
}
