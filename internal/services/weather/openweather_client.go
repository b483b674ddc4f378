package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const (
	defaultRetryBase = 200 * time.Millisecond
	maxRetryDelay    = 5 * time.Second
)

// ClientConfig holds provider endpoints and the transport retry policy.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ProURL     string
	MaxRetries uint64
	RetryBase  time.Duration
}

// ClientOpenWeatherMap talks to an OpenWeatherMap compatible API. Fetch
// methods return raw response bodies; parsing happens elsewhere.
type ClientOpenWeatherMap struct {
	cfg    ClientConfig
	client HTTPClient
	logger zerolog.Logger
}

func NewClientOpenWeatherMap(cfg ClientConfig, httpClient HTTPClient, logger zerolog.Logger) *ClientOpenWeatherMap {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.ProURL = strings.TrimRight(cfg.ProURL, "/")

	return &ClientOpenWeatherMap{
		cfg:    cfg,
		client: httpClient,
		logger: logger.With().Str("component", "OpenWeatherMap").Logger(),
	}
}

type lookupResponse struct {
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

// Resolve looks a place name up and returns its coordinates. Every failure
// is reported as models.ErrLookupFailure with the cause attached.
func (c *ClientOpenWeatherMap) Resolve(ctx context.Context, city string) (models.Coordinates, error) {
	q := url.Values{}
	q.Set("q", city)

	body, err := c.get(ctx, c.cfg.BaseURL, endpointWeather, q)
	if err != nil {
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("location lookup failed")
		return models.Coordinates{}, fmt.Errorf("%w: %q: %w", models.ErrLookupFailure, city, err)
	}

	var resp lookupResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil || resp.Coord == nil {
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("lookup response has no coordinates")
		return models.Coordinates{}, fmt.Errorf("%w: %q: %w", models.ErrLookupFailure, city, models.ErrMalformedResponse)
	}

	coords := models.Coordinates{Latitude: resp.Coord.Lat, Longitude: resp.Coord.Lon}
	c.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Float64("lat", coords.Latitude).
		Float64("lon", coords.Longitude).
		Msg("location resolved")
	return coords, nil
}

func (c *ClientOpenWeatherMap) FetchCurrent(ctx context.Context, coords models.Coordinates) (string, error) {
	return c.get(ctx, c.cfg.BaseURL, endpointWeather, coordQuery(coords))
}

func (c *ClientOpenWeatherMap) FetchDailyForecast(
	ctx context.Context,
	coords models.Coordinates,
	count int,
) (string, error) {
	q := coordQuery(coords)
	q.Set("cnt", strconv.Itoa(count))
	return c.get(ctx, c.cfg.BaseURL, endpointDaily, q)
}

func (c *ClientOpenWeatherMap) FetchHourlyForecast(ctx context.Context, coords models.Coordinates) (string, error) {
	return c.get(ctx, c.cfg.ProURL, endpointHourly, coordQuery(coords))
}

func coordQuery(coords models.Coordinates) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	return q
}

// get performs a GET and retries transport failures with exponential
// backoff. Non-2xx answers are returned immediately.
func (c *ClientOpenWeatherMap) get(ctx context.Context, base, endpoint string, q url.Values) (string, error) {
	start := time.Now()
	q.Set("appid", c.cfg.APIKey)
	target := base + "/" + endpoint + "?" + q.Encode()

	backoff := retry.NewExponential(c.cfg.RetryBase)
	backoff = retry.WithCappedDuration(maxRetryDelay, backoff)
	backoff = retry.WithMaxRetries(c.cfg.MaxRetries, backoff)

	attempt := 0
	var body string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.do(ctx, endpoint, target)
		if err != nil {
			var tErr *models.TransportError
			if errors.As(err, &tErr) && ctx.Err() == nil {
				c.logger.Warn().
					Ctx(ctx).
					Err(err).
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("transport failure, will retry")
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		var tErr *models.TransportError
		var pErr *models.ProviderError
		if !errors.As(err, &tErr) && !errors.As(err, &pErr) {
			// retry.Do gave up on a cancelled context between attempts
			err = &models.TransportError{Endpoint: endpoint, Err: err}
		}
		return "", err
	}

	c.logger.Debug().
		Ctx(ctx).
		Str("endpoint", endpoint).
		Int("attempts", attempt).
		Dur("duration_ms", time.Since(start)).
		Msg("provider request succeeded")
	return body, nil
}

func (c *ClientOpenWeatherMap) do(ctx context.Context, endpoint, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("endpoint", endpoint).
			Msg("failed to create HTTP request")
		return "", &models.TransportError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &models.TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().
				Ctx(ctx).
				Err(cerr).
				Str("endpoint", endpoint).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error().
			Ctx(ctx).
			Str("endpoint", endpoint).
			Str("status", resp.Status).
			Msg("provider returned non-2xx status")
		return "", &models.ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.TransportError{Endpoint: endpoint, Err: err}
	}
	return string(data), nil
}
