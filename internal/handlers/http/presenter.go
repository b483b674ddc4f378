package http

import (
	"math"
	"time"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const (
	dateLayout  = "2006-01-02"
	labelLayout = "Mon 2.1"
	fullCircle  = 360
	arrowBase   = 270
)

type CurrentView struct {
	Description      string `json:"description"`
	TemperatureC     int    `json:"temperature_c"`
	FeelsLikeC       int    `json:"feels_like_c"`
	HumidityPct      int    `json:"humidity_pct"`
	WindSpeedMs      int    `json:"wind_speed_ms"`
	WindDirectionDeg int    `json:"wind_direction_deg"`
	WindArrowDeg     int    `json:"wind_arrow_deg"`
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
}

type DayView struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	MinTempC    int     `json:"min_temp_c"`
	MaxTempC    int     `json:"max_temp_c"`
	RainMm      float64 `json:"rain_mm"`
}

type HourView struct {
	Hour         string  `json:"hour"`
	Description  string  `json:"description"`
	TemperatureC int     `json:"temperature_c"`
	RainMm       float64 `json:"rain_mm"`
}

// WeatherView is the render-ready form of a search result: whole degrees,
// local clock times, and forecasts cut to what is displayed.
type WeatherView struct {
	City      string      `json:"city"`
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lon"`
	Favorite  bool        `json:"favorite"`
	Current   CurrentView `json:"current"`
	Daily     []DayView   `json:"daily"`
	Hourly    []HourView  `json:"hourly"`
	FetchedAt time.Time   `json:"fetched_at"`
	Warning   string      `json:"warning,omitempty"`
}

func NewWeatherView(res models.SearchResult) WeatherView {
	cur := res.Current
	view := WeatherView{
		City:      res.City,
		Latitude:  res.Coordinates.Latitude,
		Longitude: res.Coordinates.Longitude,
		Current: CurrentView{
			Description:      cur.Description,
			TemperatureC:     models.RoundHalfUp(cur.TemperatureC),
			FeelsLikeC:       models.RoundHalfUp(cur.FeelsLikeC),
			HumidityPct:      cur.HumidityPct,
			WindSpeedMs:      models.RoundHalfUp(cur.WindSpeedMs),
			WindDirectionDeg: cur.WindDirectionDeg,
			WindArrowDeg:     windArrow(cur.WindDirectionDeg),
			Sunrise:          models.LocalClock(cur.SunriseEpochSec, cur.UTCOffsetSec),
			Sunset:           models.LocalClock(cur.SunsetEpochSec, cur.UTCOffsetSec),
		},
		FetchedAt: res.FetchedAt,
	}

	days := models.Head(res.Daily, models.ForecastDays)
	view.Daily = make([]DayView, 0, len(days))
	for _, d := range days {
		view.Daily = append(view.Daily, DayView{
			Date:        d.Date.Format(dateLayout),
			Label:       d.Date.Format(labelLayout),
			Description: d.Description,
			MinTempC:    models.RoundHalfUp(d.MinTempC),
			MaxTempC:    models.RoundHalfUp(d.MaxTempC),
			RainMm:      oneDecimal(d.RainMm),
		})
	}

	hours := models.Head(res.Hourly, models.ForecastHours)
	view.Hourly = make([]HourView, 0, len(hours))
	for _, h := range hours {
		view.Hourly = append(view.Hourly, HourView{
			Hour:         h.Hour,
			Description:  h.Description,
			TemperatureC: models.RoundHalfUp(h.TemperatureC),
			RainMm:       oneDecimal(h.RainMm),
		})
	}
	return view
}

// windArrow turns a meteorological "from" bearing into the rotation of an
// arrow glyph that points right at 0 degrees.
func windArrow(deg int) int {
	a := (arrowBase - deg) % fullCircle
	if a < 0 {
		a += fullCircle
	}
	return a
}

func oneDecimal(x float64) float64 {
	return math.Round(x*10) / 10
}
