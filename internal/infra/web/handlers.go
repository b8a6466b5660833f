// File: internal/infra/web/handlers.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case domain.ErrInvalidArgument:
		http.Error(w, "invalid argument", http.StatusBadRequest)
	case domain.ErrConflict, domain.ErrActiveCampaignExists:
		http.Error(w, err.Error(), http.StatusConflict)
	case domain.ErrHHNotLinked:
		http.Error(w, "hh account is not linked", http.StatusPreconditionFailed)
	case domain.ErrQuotaExhausted:
		http.Error(w, "daily quota exhausted", http.StatusTooManyRequests)
	case domain.ErrLockBusy:
		http.Error(w, "busy, try again", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	return id, err == nil && id > 0
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ---- users ----

type userSeenRequest struct {
	TgID        int64   `json:"tg_id"`
	Username    *string `json:"username,omitempty"`
	Ref         *string `json:"ref,omitempty"`
	UTMSource   *string `json:"utm_source,omitempty"`
	UTMMedium   *string `json:"utm_medium,omitempty"`
	UTMCampaign *string `json:"utm_campaign,omitempty"`
}

func (s *Server) userSeen(w http.ResponseWriter, r *http.Request) {
	var req userSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TgID == 0 {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, err := s.users.Seen(r.Context(), repository.SeenUpdate{
		TgID:        req.TgID,
		Username:    req.Username,
		Ref:         req.Ref,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

type quotaResponse struct {
	Tariff     string `json:"tariff"`
	DailyCap   int    `json:"daily_cap"`
	UsedToday  int    `json:"used_today"`
	Remaining  int    `json:"remaining"`
	ResetLabel string `json:"resets_at_msk"`
}

func toQuotaResponse(qv *model.QuotaView) quotaResponse {
	return quotaResponse{
		Tariff:     qv.Tariff,
		DailyCap:   qv.DailyCap,
		UsedToday:  qv.UsedToday,
		Remaining:  qv.Remaining,
		ResetLabel: qv.ResetLabel,
	}
}

func (s *Server) userProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	p, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := struct {
		ID        int64          `json:"id"`
		TgID      int64          `json:"tg_id"`
		Username  *string        `json:"username,omitempty"`
		HHLinked  bool           `json:"hh_linked"`
		HHAccount *string        `json:"hh_account,omitempty"`
		Quota     quotaResponse `json:"quota"`
		PaidUntil *time.Time    `json:"paid_until,omitempty"`
	}{
		ID:        p.User.ID,
		TgID:      p.User.TgID,
		Username:  p.User.Username,
		HHLinked:  p.HHLinked,
		HHAccount: p.User.HHAccountName,
		Quota:     toQuotaResponse(p.Quota),
	}
	if p.PaidUntil != nil {
		resp.PaidUntil = &p.PaidUntil.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	st, err := s.users.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ApplicationsTotal int   `json:"applications_total"`
		ApplicationsToday int   `json:"applications_today"`
		ReferralsL1       int   `json:"referrals_l1"`
		ReferralsL2       int   `json:"referrals_l2"`
		ReferralsL3       int   `json:"referrals_l3"`
		ReferralBalance   int64 `json:"referral_balance_cents"`
	}{
		ApplicationsTotal: st.ApplicationsTotal,
		ApplicationsToday: st.ApplicationsToday,
		ReferralsL1:       st.Referrals.Level1,
		ReferralsL2:       st.Referrals.Level2,
		ReferralsL3:       st.Referrals.Level3,
		ReferralBalance:   st.Referrals.BalanceCents,
	})
}

func (s *Server) userQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	qv, err := s.quota.View(r.Context(), nil, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuotaResponse(qv))
}

func (s *Server) userSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	p, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if p.PaidUntil == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Active    bool      `json:"active"`
		ExpiresAt time.Time `json:"expires_at"`
		Status    string    `json:"status"`
	}{
		Active:    p.PaidUntil.ActiveAt(time.Now().UTC()),
		ExpiresAt: p.PaidUntil.ExpiresAt,
		Status:    string(p.PaidUntil.Status),
	})
}

// ---- hh account ----

func (s *Server) hhLogin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	url, err := s.tokens.LoginURL(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) hhCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		http.Error(w, "missing state or code", http.StatusBadRequest)
		return
	}
	userID, err := s.tokens.HandleCallback(r.Context(), state, code)
	if err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("oauth callback failed")
		http.Error(w, "link failed, request a new login link in the bot", http.StatusBadRequest)
		return
	}
	logging.With(r.Context(), s.log).Info().Int64("user_id", userID).Msg("hh account linked")
	if s.returnURL != "" {
		http.Redirect(w, r, s.returnURL, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<html><body><h3>Аккаунт hh.ru привязан. Вернитесь в бот.</h3></body></html>"))
}

func (s *Server) hhStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	st, err := s.tokens.Status(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Linked      bool       `json:"linked"`
		AccountID   string     `json:"account_id,omitempty"`
		AccountName string     `json:"account_name,omitempty"`
		ExpiresAt   *time.Time `json:"token_expires_at,omitempty"`
	}{st.Linked, st.AccountID, st.AccountName, st.ExpiresAt})
}

func (s *Server) hhRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	if _, err := s.tokens.ForceRefresh(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"refreshed": true})
}

func (s *Server) hhUnlink(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	if err := s.tokens.Unlink(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resumeResponse struct {
	ResumeID string `json:"resume_id"`
	Title    string `json:"title"`
	Area     string `json:"area,omitempty"`
	Visible  bool   `json:"visible"`
}

func (s *Server) resumesSync(w http.ResponseWriter, r *http.Request) {
	s.writeResumes(w, r, s.tokens.SyncResumes)
}

func (s *Server) resumesList(w http.ResponseWriter, r *http.Request) {
	s.writeResumes(w, r, s.tokens.Resumes)
}

func (s *Server) writeResumes(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID int64) ([]*model.Resume, error)) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	list, err := fetch(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]resumeResponse, 0, len(list))
	for _, rs := range list {
		out = append(out, resumeResponse{ResumeID: rs.ResumeID, Title: rs.Title, Area: rs.Area, Visible: rs.Visible})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- saved requests ----

type savedRequestRequest struct {
	Title             string   `json:"title"`
	Query             string   `json:"query"`
	Area              *int     `json:"area,omitempty"`
	Employment        []string `json:"employment,omitempty"`
	Schedule          []string `json:"schedule,omitempty"`
	ProfessionalRoles []int    `json:"professional_roles,omitempty"`
	SearchFields      []string `json:"search_fields,omitempty"`
	CoverLetter       string   `json:"cover_letter,omitempty"`
	QueryParams       string   `json:"query_params,omitempty"`
}

type savedRequestResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	QueryParams string `json:"query_params"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

func toSavedRequestResponse(r *model.SavedRequest) savedRequestResponse {
	return savedRequestResponse{ID: r.ID, Title: r.Title, QueryParams: r.QueryParams, CoverLetter: r.CoverLetter}
}

func (s *Server) savedRequestCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	var req savedRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sr := &model.SavedRequest{
		UserID:            userID,
		Title:             req.Title,
		Query:             req.Query,
		Area:              req.Area,
		Employment:        req.Employment,
		Schedule:          req.Schedule,
		ProfessionalRoles: req.ProfessionalRoles,
		SearchFields:      req.SearchFields,
		CoverLetter:       req.CoverLetter,
		QueryParams:       req.QueryParams,
	}
	id, err := s.saved.Create(r.Context(), sr)
	if err != nil {
		writeError(w, err)
		return
	}
	sr.ID = id
	writeJSON(w, http.StatusCreated, toSavedRequestResponse(sr))
}

func (s *Server) savedRequestList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	list, err := s.saved.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]savedRequestResponse, 0, len(list))
	for _, sr := range list {
		out = append(out, toSavedRequestResponse(sr))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) savedRequestGet(w http.ResponseWriter, r *http.Request) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	sr, err := s.saved.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSavedRequestResponse(sr))
}

func (s *Server) savedRequestDelete(w http.ResponseWriter, r *http.Request) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := s.saved.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- campaigns ----

type campaignRequest struct {
	ID             int64  `json:"id,omitempty"`
	Title          string `json:"title"`
	SavedRequestID *int64 `json:"saved_request_id,omitempty"`
	ResumeID       string `json:"resume_id"`
	DailyLimit     int    `json:"daily_limit"`
}

type campaignResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ResumeID   string `json:"resume_id"`
	DailyLimit int    `json:"daily_limit"`
	SentToday  int    `json:"sent_today"`
	SentTotal  int    `json:"sent_total"`
	Status     string `json:"status"`
}

func toCampaignResponse(c *model.Campaign) campaignResponse {
	return campaignResponse{
		ID:         c.ID,
		Title:      c.Title,
		ResumeID:   c.ResumeID,
		DailyLimit: c.DailyLimit,
		SentToday:  c.SentToday,
		SentTotal:  c.SentTotal,
		Status:     string(c.Status),
	}
}

func (s *Server) campaignUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, err := s.campaigns.Upsert(r.Context(), &model.Campaign{
		ID:             req.ID,
		UserID:         userID,
		Title:          req.Title,
		SavedRequestID: req.SavedRequestID,
		ResumeID:       req.ResumeID,
		DailyLimit:     req.DailyLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) campaignList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	limit, offset := pageParams(r)
	list, total, err := s.campaigns.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]campaignResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCampaignResponse(c))
	}
	writeJSON(w, http.StatusOK, struct {
		Items []campaignResponse `json:"items"`
		Total int                `json:"total"`
	}{out, total})
}

func (s *Server) campaignGet(w http.ResponseWriter, r *http.Request) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	c, err := s.campaigns.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (s *Server) campaignStart(w http.ResponseWriter, r *http.Request) {
	s.campaignAction(w, r, s.campaigns.Start)
}

func (s *Server) campaignStop(w http.ResponseWriter, r *http.Request) {
	s.campaignAction(w, r, s.campaigns.Stop)
}

func (s *Server) campaignDelete(w http.ResponseWriter, r *http.Request) {
	s.campaignAction(w, r, s.campaigns.Delete)
}

func (s *Server) campaignAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, id int64) error) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := fn(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) campaignSendNow(w http.ResponseWriter, r *http.Request) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	n, err := s.campaigns.SendNow(r.Context(), userID, id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"enqueued": n})
}

// ---- applications / dispatch ----

type applicationResponse struct {
	ID        int64      `json:"id"`
	VacancyID int64      `json:"vacancy_id"`
	ResumeID  string     `json:"resume_id"`
	Kind      string     `json:"kind"`
	Status    string     `json:"status"`
	Attempts  int        `json:"attempts"`
	Error     *string    `json:"error,omitempty"`
	NextTryAt *time.Time `json:"next_try_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

func toApplicationResponse(a *model.Application) applicationResponse {
	return applicationResponse{
		ID:        a.ID,
		VacancyID: a.VacancyID,
		ResumeID:  a.ResumeID,
		Kind:      string(a.Kind),
		Status:    string(a.Status),
		Attempts:  a.AttemptCount,
		Error:     a.Error,
		NextTryAt: a.NextTryAt,
		CreatedAt: a.CreatedAt,
		SentAt:    a.SentAt,
	}
}

func (s *Server) applicationList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	limit, offset := pageParams(r)
	list, err := s.apps.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]applicationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toApplicationResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) applicationGet(w http.ResponseWriter, r *http.Request) {
	userID, okU := userIDParam(r)
	id, okI := idParam(r)
	if !okU || !okI {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	a, err := s.apps.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(a))
}

type enqueueRequest struct {
	ResumeID    string  `json:"resume_id"`
	VacancyIDs  []int64 `json:"vacancy_ids"`
	CoverLetter *string `json:"cover_letter,omitempty"`
}

func (s *Server) applicationEnqueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := s.apps.Enqueue(r.Context(), userID, req.ResumeID, req.VacancyIDs, req.CoverLetter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type dispatchRequest struct {
	DryRun bool `json:"dry_run"`
	Limit  int  `json:"limit"`
}

func (s *Server) dispatchOnce(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	stats, err := s.dispatch.DispatchOnce(r.Context(), req.DryRun, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ---- referrals ----

func (s *Server) referralStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	st, err := s.refs.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Level1       int   `json:"level1"`
		Level2       int   `json:"level2"`
		Level3       int   `json:"level3"`
		IncomeCents  int64 `json:"income_cents"`
		BalanceCents int64 `json:"balance_cents"`
	}{st.Level1, st.Level2, st.Level3, st.IncomeCents, st.BalanceCents})
}

func (s *Server) referralCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	code, err := s.refs.EnsureRefCode(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (s *Server) referralTrack(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.refs.Track(r.Context(), userID, req.Code); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- notifications ----

type broadcastRequest struct {
	Scope       string     `json:"scope"`
	UserID      *int64     `json:"user_id,omitempty"`
	Text        string     `json:"text"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (s *Server) broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" || req.Scope == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var at time.Time
	if req.ScheduledAt != nil {
		at = *req.ScheduledAt
	}
	id, err := s.notify.Broadcast(r.Context(), req.UserID, req.Scope, req.Text, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}
