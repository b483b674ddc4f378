package refresher

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const (
	jobName         = "refresh_favorites"
	timeoutDuration = 2 * time.Minute
	maxParallel     = 4
)

var errNotStarted = errors.New("refresher not started")

type favoritesLoader interface {
	LoadAll() ([]string, error)
}

type lookupRefresher interface {
	Refresh(ctx context.Context, city string) (models.SearchResult, error)
}

type observer interface {
	ObserveCronRun(job string, d time.Duration)
	IncTechnicalError(kind, severity string)
}

// Refresher periodically re-fetches every favorite city so cached lookups
// stay warm.
type Refresher struct {
	favorites favoritesLoader
	target    lookupRefresher
	logger    zerolog.Logger
	cron      *cron.Cron
	cancel    context.CancelFunc
	obs       observer
	schedule  string
}

func New(
	favorites favoritesLoader,
	target lookupRefresher,
	logger zerolog.Logger,
	schedule string,
	obs observer,
) *Refresher {
	return &Refresher{
		favorites: favorites,
		target:    target,
		logger:    logger.With().Str("component", "Refresher").Logger(),
		cron:      cron.New(cron.WithSeconds()),
		obs:       obs,
		schedule:  schedule,
	}
}

// Start schedules the refresh job. The schedule includes a seconds field.
func (r *Refresher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	if _, err := r.cron.AddFunc(r.schedule, func() { r.RunOnce(ctx) }); err != nil {
		cancel()
		r.logger.Error().Err(err).Str("schedule", r.schedule).Msg("failed to schedule refresh job")
		r.obs.IncTechnicalError("cron_schedule_error", "critical")
		return err
	}

	r.cancel = cancel
	r.cron.Start()
	r.logger.Info().Str("schedule", r.schedule).Msg("favorites refresher started")
	return nil
}

// Stop cancels the running job and waits for it to finish.
func (r *Refresher) Stop() error {
	if r.cancel == nil {
		return errNotStarted
	}
	r.cancel()
	<-r.cron.Stop().Done()
	r.logger.Info().Msg("favorites refresher stopped")
	return nil
}

// RunOnce refreshes all favorites, a few at a time.
func (r *Refresher) RunOnce(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	defer func() {
		r.obs.ObserveCronRun(jobName, time.Since(start))
	}()

	cities, err := r.favorites.LoadAll()
	if err != nil {
		r.logger.Error().Err(err).Msg("error loading favorites")
		r.obs.IncTechnicalError("load_favorites", "critical")
		return
	}

	var g errgroup.Group
	g.SetLimit(maxParallel)

	for _, city := range cities {
		g.Go(func() error {
			if _, err := r.target.Refresh(ctx, city); err != nil {
				r.logger.Warn().Err(err).Str("city", city).Msg("refresh failed")
				r.obs.IncTechnicalError("refresh_city", "warning")
			}
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info().
		Int("count", len(cities)).
		Dur("duration", time.Since(start)).
		Msg("favorites refreshed")
}
