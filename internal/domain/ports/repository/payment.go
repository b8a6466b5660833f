package repository

import (
	"context"
)

type PaymentRepository interface {
	// UpsertPaid records the provider transaction as paid, idempotent on
	// (provider, provider_id). Reports whether this call performed the first
	// transition to paid.
	UpsertPaid(ctx context.Context, tx Tx, provider, providerID string, userID, tariffID int64, amountCents int64, description string, raw []byte) (bool, error)

	// UpsertFailed records a failed transaction.
	UpsertFailed(ctx context.Context, tx Tx, provider, providerID string, amountCents int64, raw []byte) error
}
