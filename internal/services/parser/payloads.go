package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

type weatherDesc struct {
	Description string `json:"description"`
}

type currentPayload struct {
	Weather []weatherDesc `json:"weather"`
	Main    *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

type dailyItem struct {
	Dt   int64 `json:"dt"`
	Temp *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Weather []weatherDesc   `json:"weather"`
	Rain    json.RawMessage `json:"rain"`
}

type dailyPayload struct {
	City *struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
	List *[]dailyItem `json:"list"`
}

type hourlyItem struct {
	DtTxt string `json:"dt_txt"`
	Main  *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []weatherDesc   `json:"weather"`
	Rain    json.RawMessage `json:"rain"`
}

type hourlyPayload struct {
	List *[]hourlyItem `json:"list"`
}

func decode(raw string, into any) error {
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return fmt.Errorf("%w: %w", models.ErrMalformedResponse, err)
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrMalformedResponse}, args...)...)
}

func firstDescription(w []weatherDesc) (string, bool) {
	if len(w) == 0 {
		return "", false
	}
	return w[0].Description, true
}

// rainAmount reads a rain field that may be absent, null, a bare number or
// an object keyed by accumulation window. Keys are tried in order.
func rainAmount(raw json.RawMessage, keys ...string) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}

	var amount float64
	if err := json.Unmarshal(trimmed, &amount); err == nil {
		return amount, nil
	}

	var windows map[string]float64
	if err := json.Unmarshal(trimmed, &windows); err != nil {
		return 0, malformed("rain: %v", err)
	}
	for _, k := range keys {
		if v, ok := windows[k]; ok {
			return v, nil
		}
	}
	return 0, nil
}
