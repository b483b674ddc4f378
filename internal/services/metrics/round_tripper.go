package metrics

import (
	"net/http"
	"strings"
	"time"
)

type providerRoundTripper struct {
	next http.RoundTripper
	m    *Metrics
}

// RoundTripper instruments outbound provider calls. The endpoint label is
// the last two path segments, e.g. "2.5/weather" or "forecast/hourly".
func (m *Metrics) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &providerRoundTripper{next: next, m: m}
}

func (t *providerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	endpoint := endpointLabel(req.URL.Path)
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	t.m.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		t.m.ProviderRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, err
	}
	t.m.ProviderRequestsTotal.WithLabelValues(endpoint, getStatusClass(resp.StatusCode)).Inc()
	return resp, nil
}

func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
