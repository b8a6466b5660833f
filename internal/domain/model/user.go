package model

import "time"

// User is one end-user of the bot. Created on first contact, never destroyed.
type User struct {
	ID            int64
	TgID          int64
	Username      *string
	HHAccountID   *string
	HHAccountName *string

	// RefCode is this user's own referral code (unique when set).
	RefCode *string
	// Ref is the referral code the user arrived with, stored at /start and
	// consumed at OAuth link time.
	Ref        *string
	ReferredBy *int64

	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string

	CreatedAt  time.Time
	LastSeenAt time.Time
}
