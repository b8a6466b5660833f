package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

// Payment is one provider transaction, idempotent on (provider, provider_id).
type Payment struct {
	ID          int64
	UserID      *int64
	Provider    string
	ProviderID  string
	TariffID    *int64
	AmountCents int64
	Status      PaymentStatus
	Description string
	Raw         []byte
	CreatedAt   time.Time
}
