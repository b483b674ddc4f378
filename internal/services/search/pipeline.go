package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nazarious-ucu/weather-app/internal/models"
	"github.com/Nazarious-ucu/weather-app/internal/services/parser"
)

const tracerName = "weather-app/search"

type weatherProvider interface {
	Resolve(ctx context.Context, city string) (models.Coordinates, error)
	FetchCurrent(ctx context.Context, coords models.Coordinates) (string, error)
	FetchDailyForecast(ctx context.Context, coords models.Coordinates, count int) (string, error)
	FetchHourlyForecast(ctx context.Context, coords models.Coordinates) (string, error)
}

// Pipeline runs one full lookup: resolve the name, then fetch and parse the
// current conditions, the daily and the hourly forecast, in that order.
type Pipeline struct {
	provider weatherProvider
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewPipeline(provider weatherProvider, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		logger:   logger.With().Str("component", "SearchPipeline").Logger(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

func (p *Pipeline) Lookup(ctx context.Context, city string) (models.SearchResult, error) {
	ctx, span := p.tracer.Start(ctx, "search.lookup", trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	start := p.now()

	coords, err := stage(ctx, p.tracer, "resolve", func(ctx context.Context) (models.Coordinates, error) {
		return p.provider.Resolve(ctx, city)
	})
	if err != nil {
		return p.fail(ctx, span, city, "resolve", err)
	}

	current, err := stage(ctx, p.tracer, "current", func(ctx context.Context) (models.CurrentConditions, error) {
		raw, err := p.provider.FetchCurrent(ctx, coords)
		if err != nil {
			return models.CurrentConditions{}, err
		}
		return parser.ParseCurrentConditions(raw)
	})
	if err != nil {
		return p.fail(ctx, span, city, "current", err)
	}

	daily, err := stage(ctx, p.tracer, "daily", func(ctx context.Context) ([]models.ForecastDay, error) {
		raw, err := p.provider.FetchDailyForecast(ctx, coords, models.ProviderForecastDays)
		if err != nil {
			return nil, err
		}
		return parser.ParseDailyForecast(raw)
	})
	if err != nil {
		return p.fail(ctx, span, city, "daily", err)
	}

	hourly, err := stage(ctx, p.tracer, "hourly", func(ctx context.Context) ([]models.HourlyEntry, error) {
		raw, err := p.provider.FetchHourlyForecast(ctx, coords)
		if err != nil {
			return nil, err
		}
		return parser.ParseHourlyForecast(raw)
	})
	if err != nil {
		return p.fail(ctx, span, city, "hourly", err)
	}

	p.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Int("days", len(daily)).
		Int("hours", len(hourly)).
		Dur("duration_ms", p.now().Sub(start)).
		Msg("lookup completed")

	return models.SearchResult{
		City:        city,
		Coordinates: coords,
		Current:     current,
		Daily:       daily,
		Hourly:      hourly,
		FetchedAt:   p.now().UTC(),
	}, nil
}

func (p *Pipeline) fail(
	ctx context.Context,
	span trace.Span,
	city, step string,
	err error,
) (models.SearchResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, step+" failed")
	p.logger.Error().
		Ctx(ctx).
		Err(err).
		Str("city", city).
		Str("step", step).
		Msg("lookup failed")
	return models.SearchResult{}, fmt.Errorf("%s: %w", step, err)
}

func stage[T any](ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "search."+name)
	defer span.End()

	res, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}
