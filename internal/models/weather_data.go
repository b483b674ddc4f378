package models

import "time"

const (
	// ProviderForecastDays is how many days the daily forecast asks for.
	ProviderForecastDays = 16
	// ForecastDays and ForecastHours bound what is shown to the user.
	ForecastDays  = 14
	ForecastHours = 24
)

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// CurrentConditions is a snapshot of the weather at the resolved location.
// Temperatures are kept both as reported (Kelvin) and converted to Celsius.
type CurrentConditions struct {
	Description      string  `json:"description"`
	TemperatureK     float64 `json:"temperature_k"`
	FeelsLikeK       float64 `json:"feels_like_k"`
	TemperatureC     float64 `json:"temperature_c"`
	FeelsLikeC       float64 `json:"feels_like_c"`
	HumidityPct      int     `json:"humidity_pct"`
	WindSpeedMs      float64 `json:"wind_speed_ms"`
	WindDirectionDeg int     `json:"wind_direction_deg"`
	SunriseEpochSec  int64   `json:"sunrise"`
	SunsetEpochSec   int64   `json:"sunset"`
	UTCOffsetSec     int     `json:"utc_offset_sec"`
}

// ForecastDay is one calendar day of the multi-day forecast. Date is midnight
// of that day in the location's UTC offset.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	MinTempC    float64   `json:"min_temp_c"`
	MaxTempC    float64   `json:"max_temp_c"`
	RainMm      float64   `json:"rain_mm"`
}

type HourlyEntry struct {
	Hour         string  `json:"hour"`
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	RainMm       float64 `json:"rain_mm"`
}

// SearchResult is everything one successful search produced.
type SearchResult struct {
	City        string            `json:"city"`
	Coordinates Coordinates       `json:"coordinates"`
	Current     CurrentConditions `json:"current"`
	Daily       []ForecastDay     `json:"daily"`
	Hourly      []HourlyEntry     `json:"hourly"`
	FetchedAt   time.Time         `json:"fetched_at"`
}
