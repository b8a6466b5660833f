package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(paymentsTotal, referralBonusTotal) }

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment webhook outcomes (paid/duplicate/failed/rejected).",
		},
		[]string{"status"},
	)

	referralBonusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_bonus_total",
			Help: "Referral bonuses accrued, by level.",
		},
		[]string{"level"},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func IncReferralBonus(level string) {
	referralBonusTotal.WithLabelValues(norm(level)).Inc()
}
