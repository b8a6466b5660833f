// File: internal/usecase/saved_request_uc.go
package usecase

import (
	"context"
	"strconv"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/hh"
)

var _ SavedRequestUseCase = (*savedRequestUC)(nil)

type SavedRequestUseCase interface {
	// Create canonicalizes the query string before storing; structured
	// fields are rebuilt into a query string when none was given.
	Create(ctx context.Context, r *model.SavedRequest) (int64, error)
	List(ctx context.Context, userID int64) ([]*model.SavedRequest, error)
	Get(ctx context.Context, userID, id int64) (*model.SavedRequest, error)
	Delete(ctx context.Context, userID, id int64) error
}

type savedRequestUC struct {
	reqs repository.SavedRequestRepository
}

func NewSavedRequestUseCase(reqs repository.SavedRequestRepository) *savedRequestUC {
	return &savedRequestUC{reqs: reqs}
}

func (u *savedRequestUC) Create(ctx context.Context, r *model.SavedRequest) (int64, error) {
	if r.UserID == 0 {
		return 0, domain.ErrInvalidArgument
	}
	qs := r.QueryParams
	if qs == "" {
		qs = buildQueryString(r)
	}
	r.QueryParams = hh.Canonical(qs)
	if r.QueryParams == "" {
		return 0, domain.ErrInvalidArgument
	}
	return u.reqs.Create(ctx, nil, r)
}

// buildQueryString assembles the raw query string from the structured fields.
func buildQueryString(r *model.SavedRequest) string {
	var params []hh.Param
	if r.Query != "" {
		params = append(params, hh.Param{Key: "text", Value: r.Query})
	}
	if r.Area != nil {
		params = append(params, hh.Param{Key: "area", Value: strconv.Itoa(*r.Area)})
	}
	for _, v := range r.Employment {
		params = append(params, hh.Param{Key: "employment", Value: v})
	}
	for _, v := range r.Schedule {
		params = append(params, hh.Param{Key: "schedule", Value: v})
	}
	for _, v := range r.ProfessionalRoles {
		params = append(params, hh.Param{Key: "professional_role", Value: strconv.Itoa(v)})
	}
	for _, v := range r.SearchFields {
		params = append(params, hh.Param{Key: "search_field", Value: v})
	}
	return hh.Encode(params)
}

func (u *savedRequestUC) List(ctx context.Context, userID int64) ([]*model.SavedRequest, error) {
	return u.reqs.ListByUser(ctx, nil, userID)
}

func (u *savedRequestUC) Get(ctx context.Context, userID, id int64) (*model.SavedRequest, error) {
	r, err := u.reqs.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (u *savedRequestUC) Delete(ctx context.Context, userID, id int64) error {
	return u.reqs.Delete(ctx, nil, userID, id)
}
