package weather

import (
	"context"
	"net/http"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type provider interface {
	Resolve(ctx context.Context, city string) (models.Coordinates, error)
	FetchCurrent(ctx context.Context, coords models.Coordinates) (string, error)
	FetchDailyForecast(ctx context.Context, coords models.Coordinates, count int) (string, error)
	FetchHourlyForecast(ctx context.Context, coords models.Coordinates) (string, error)
}

const (
	endpointWeather = "weather"
	endpointDaily   = "forecast/daily"
	endpointHourly  = "forecast/hourly"
)
