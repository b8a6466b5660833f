package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(hhRequestsTotal, tokenRefreshTotal) }

var (
	hhRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hh_requests_total",
			Help: "Outbound HH API calls by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	tokenRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hh_token_refresh_total",
			Help: "OAuth token refresh attempts by result.",
		},
		[]string{"result"}, // ok | failed | locked
	)
)

func IncHHRequest(endpoint string, code int) {
	hhRequestsTotal.WithLabelValues(norm(endpoint), strconv.Itoa(code)).Inc()
}

func IncTokenRefresh(result string) {
	tokenRefreshTotal.WithLabelValues(norm(result)).Inc()
}
