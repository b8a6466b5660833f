package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid exec context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// ErrActiveCampaignExists is returned when a second campaign is started
	// while another one is already active for the same user.
	ErrActiveCampaignExists = errors.New("another active campaign exists")

	// ErrHHNotLinked is returned for operations that require a linked HH account.
	ErrHHNotLinked = errors.New("hh account is not linked")

	ErrQuotaExhausted = errors.New("daily quota exhausted")

	ErrBadSignature = errors.New("bad signature")

	ErrLockBusy = errors.New("lock is held by another worker")
)
