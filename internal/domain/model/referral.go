package model

// Referral is one edge of the materialized referrer graph: user -> ancestor
// at the given level (1..3). Unique per triple.
type Referral struct {
	UserID       int64
	ParentUserID int64
	Level        int
}

// ReferralStats is the aggregate a user sees about their own network.
type ReferralStats struct {
	Level1       int
	Level2       int
	Level3       int
	IncomeCents  int64
	BalanceCents int64
}
