package model

import "time"

// HHToken is the OAuth token pair for one linked HH account (at most one per user).
type HHToken struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// FreshWithin reports whether the access token is still usable at now with
// the given skew before expiry.
func (t *HHToken) FreshWithin(now time.Time, skew time.Duration) bool {
	return t.ExpiresAt.Sub(now) >= skew
}
