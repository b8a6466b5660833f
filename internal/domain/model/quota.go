package model

const (
	TariffFree = "free"
	TariffPaid = "paid"
)

// QuotaView is the derived per-user daily quota. used_today is always
// computed from the applications table bounded by the MSK day; there is no
// counter row to drift.
type QuotaView struct {
	Tariff     string
	DailyCap   int
	HardCap    int
	UsedToday  int
	Remaining  int
	ResetLabel string
}
