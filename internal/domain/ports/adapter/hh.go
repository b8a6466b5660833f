package adapter

import (
	"context"
	"errors"
	"time"
)

// TokenPair is what the HH token endpoint returns for both grant types.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

type ResumeInfo struct {
	ID        string
	Title     string
	Area      string
	Visible   bool
	UpdatedAt *time.Time
}

type Profile struct {
	ID        string
	FirstName string
	LastName  string
}

// SearchPage is one page worth of search results.
type SearchResult struct {
	IDs   []int64
	Found int
}

// HHClient wraps the HH REST API. All calls carry the user's bearer token and
// a stable user agent.
type HHClient interface {
	// SearchVacancies runs the canonical query-string against /vacancies,
	// ordered by publication_time, paging until limit ids are collected.
	// dateFrom, when non-empty, is a UTC ISO timestamp lower bound.
	SearchVacancies(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*SearchResult, error)

	// Apply submits one negotiation. Failures come back as *ApplyError.
	Apply(ctx context.Context, accessToken string, vacancyID int64, resumeID, coverLetter string) error

	GetResumes(ctx context.Context, accessToken string) ([]ResumeInfo, error)
	GetMe(ctx context.Context, accessToken string) (*Profile, error)

	ExchangeCode(ctx context.Context, code string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// ApplyErrorKind is the behavioral classification the dispatcher depends on.
type ApplyErrorKind int

const (
	// ApplyRetryable covers network errors, 429, 5xx and ambiguous 4xx.
	ApplyRetryable ApplyErrorKind = iota
	// ApplyUnauthorized is a 401; the token needs repair.
	ApplyUnauthorized
	// ApplyAlreadyApplied means the negotiation already exists; success.
	ApplyAlreadyApplied
	// ApplyNonRetryable is a terminal business error; Code carries the stable
	// short form (test_required, letter_required, vacancy_not_found, ...).
	ApplyNonRetryable
)

type ApplyError struct {
	Kind ApplyErrorKind
	Code string
	Body string
}

func (e *ApplyError) Error() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Body
}

// AsApplyError unwraps err into *ApplyError; unknown errors classify as
// retryable with the error text as body.
func AsApplyError(err error) *ApplyError {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae
	}
	return &ApplyError{Kind: ApplyRetryable, Body: err.Error()}
}
