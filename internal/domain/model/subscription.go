package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID        int64
	UserID    int64
	TariffID  int64
	StartedAt time.Time
	ExpiresAt time.Time
	Status    SubscriptionStatus
	Source    string
}

// ActiveAt reports whether the subscription grants paid entitlement at now.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.ExpiresAt)
}

type Tariff struct {
	ID           int64
	Code         string
	PriceCents   int64
	PeriodDays   int
	RefPercentL1 float64
	RefPercentL2 float64
	RefPercentL3 float64
	IsActive     bool
}
