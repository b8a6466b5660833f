package model

import "time"

// SavedRequest is a reusable vacancy-search specification. QueryParams holds
// the canonical query-string form (sorted, whitelisted keys only); the
// structured fields are kept for display and as a fallback source when
// QueryParams is empty.
type SavedRequest struct {
	ID                int64
	UserID            int64
	Title             string
	Query             string
	Area              *int
	Employment        []string
	Schedule          []string
	ProfessionalRoles []int
	SearchFields      []string
	CoverLetter       string
	QueryParams       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
