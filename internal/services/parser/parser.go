// Package parser turns raw provider JSON into domain entities. All functions
// are pure: no I/O, no logging.
package parser

import (
	"slices"
	"time"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const (
	hourFrom = 11
	hourTo   = 13
)

func ParseCurrentConditions(raw string) (models.CurrentConditions, error) {
	var p currentPayload
	if err := decode(raw, &p); err != nil {
		return models.CurrentConditions{}, err
	}

	desc, ok := firstDescription(p.Weather)
	if !ok {
		return models.CurrentConditions{}, malformed("current: missing weather[0]")
	}
	if p.Main == nil || p.Wind == nil || p.Sys == nil {
		return models.CurrentConditions{}, malformed("current: missing main, wind or sys")
	}

	return models.CurrentConditions{
		Description:      desc,
		TemperatureK:     p.Main.Temp,
		FeelsLikeK:       p.Main.FeelsLike,
		TemperatureC:     models.KelvinToCelsius(p.Main.Temp),
		FeelsLikeC:       models.KelvinToCelsius(p.Main.FeelsLike),
		HumidityPct:      int(p.Main.Humidity),
		WindSpeedMs:      p.Wind.Speed,
		WindDirectionDeg: int(p.Wind.Deg),
		SunriseEpochSec:  p.Sys.Sunrise,
		SunsetEpochSec:   p.Sys.Sunset,
		UTCOffsetSec:     p.Timezone,
	}, nil
}

// ParseDailyForecast returns the forecast days sorted by ascending date.
// Dates are computed in the city's offset when the payload carries one.
func ParseDailyForecast(raw string) ([]models.ForecastDay, error) {
	var p dailyPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	if p.List == nil {
		return nil, malformed("daily: missing list")
	}

	zone := time.UTC
	if p.City != nil {
		zone = time.FixedZone("", p.City.Timezone)
	}

	days := make([]models.ForecastDay, 0, len(*p.List))
	for i, item := range *p.List {
		desc, ok := firstDescription(item.Weather)
		if !ok || item.Temp == nil {
			return nil, malformed("daily: list[%d] missing weather or temp", i)
		}
		rain, err := rainAmount(item.Rain, "3h", "1h")
		if err != nil {
			return nil, err
		}

		local := time.Unix(item.Dt, 0).In(zone)
		days = append(days, models.ForecastDay{
			Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone),
			Description: desc,
			MinTempC:    models.KelvinToCelsius(item.Temp.Min),
			MaxTempC:    models.KelvinToCelsius(item.Temp.Max),
			RainMm:      rain,
		})
	}

	slices.SortStableFunc(days, func(a, b models.ForecastDay) int {
		return a.Date.Compare(b.Date)
	})
	return days, nil
}

// ParseHourlyForecast keeps the provider's chronological order.
func ParseHourlyForecast(raw string) ([]models.HourlyEntry, error) {
	var p hourlyPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	if p.List == nil {
		return nil, malformed("hourly: missing list")
	}

	entries := make([]models.HourlyEntry, 0, len(*p.List))
	for i, item := range *p.List {
		desc, ok := firstDescription(item.Weather)
		if !ok || item.Main == nil {
			return nil, malformed("hourly: list[%d] missing weather or main", i)
		}
		if len(item.DtTxt) < hourTo {
			return nil, malformed("hourly: list[%d] bad dt_txt %q", i, item.DtTxt)
		}
		rain, err := rainAmount(item.Rain, "1h")
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.HourlyEntry{
			Hour:         item.DtTxt[hourFrom:hourTo],
			Description:  desc,
			TemperatureC: models.KelvinToCelsius(item.Main.Temp),
			RainMm:       rain,
		})
	}
	return entries, nil
}
