package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		campaignEnqueuedTotal,
		campaignTickErrors,
		searchFallbackTotal,
	)
}

var (
	campaignEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_enqueued_total",
			Help: "Applications enqueued per campaign pass, by origin.",
		},
		[]string{"origin"}, // auto | manual
	)

	campaignTickErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_tick_errors_total",
			Help: "Campaign polling failures by stage.",
		},
		[]string{"stage"}, // token | search | insert
	)

	searchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_fallback_total",
			Help: "Vacancy searches that needed a relaxed query to return results.",
		},
		[]string{"step"},
	)
)

func AddCampaignEnqueued(origin string, n int) {
	campaignEnqueuedTotal.WithLabelValues(norm(origin)).Add(float64(n))
}

func IncCampaignTickError(stage string) {
	campaignTickErrors.WithLabelValues(norm(stage)).Inc()
}

func IncSearchFallback(step string) {
	searchFallbackTotal.WithLabelValues(norm(step)).Inc()
}
