package search_test

import (
	"fmt"
	"strings"
)

const (
	lookupTampere  = `{"coord": {"lon": 23.7871, "lat": 61.4991}, "name": "Tampere"}`
	currentTampere = `{
	  "weather": [{"description": "clear sky"}],
	  "main": {"temp": 280.15, "feels_like": 277.4, "humidity": 81},
	  "wind": {"speed": 3.6, "deg": 200},
	  "sys": {"sunrise": 1700000000, "sunset": 1700020000},
	  "timezone": 7200
	}`
	hourlyTampere = `{"list": [
	  {"dt_txt": "2023-11-15 09:00:00", "main": {"temp": 276.15}, "weather": [{"description": "light rain"}], "rain": {"1h": 0.3}},
	  {"dt_txt": "2023-11-15 10:00:00", "main": {"temp": 277.15}, "weather": [{"description": "overcast clouds"}]}
	]}`
)

// dailyFixture builds n forecast days, newest first, to exercise sorting.
func dailyFixture(n int) string {
	const day = 86400
	items := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		items = append(items, fmt.Sprintf(
			`{"dt": %d, "temp": {"min": 270.15, "max": 280.15}, "weather": [{"description": "day %d"}], "rain": %d}`,
			1700049600+i*day, i, i%3))
	}
	return `{"city": {"timezone": 7200}, "list": [` + strings.Join(items, ",") + `]}`
}
