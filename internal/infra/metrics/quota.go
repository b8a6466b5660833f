package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(quotaBlocksTotal) }

var quotaBlocksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quota_blocks_total",
		Help: "Applications parked or refused because the daily quota ran out.",
	},
	[]string{"tariff"}, // free | paid
)

func IncQuotaBlock(tariff string) {
	quotaBlocksTotal.WithLabelValues(norm(tariff)).Inc()
}
