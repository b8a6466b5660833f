package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/config"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/infra/metrics"
)

var _ adapter.HHClient = (*Client)(nil)

// Client is the HTTP implementation of adapter.HHClient.
type Client struct {
	cfg  config.HHConfig
	http *http.Client
	log  zerolog.Logger
}

func NewClient(cfg config.HHConfig, logger *zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 20 * time.Second},
		log:  logger.With().Str("component", "hh_client").Logger(),
	}
}

func (c *Client) headers(req *http.Request, accessToken string) {
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("HH-User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
}

// ---------- search ----------

type searchPage struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
	Found int `json:"found"`
	Pages int `json:"pages"`
}

// SearchVacancies walks /vacancies pages until limit ids are collected. When
// the full query yields nothing (or a 400), it retries with progressively
// relaxed parameter sets.
func (c *Client) SearchVacancies(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
	if limit <= 0 {
		return &adapter.SearchResult{}, nil
	}
	base := Normalize(canonicalQS)
	if dateFrom != "" {
		base = append(base, Param{"date_from", dateFrom})
	}

	res, _, err := c.fetchPages(ctx, accessToken, withPublicationOrder(base), limit)
	if err != nil {
		return nil, err
	}
	if len(res.IDs) > 0 {
		return res, nil
	}

	for i, step := range Relaxations(base) {
		res, _, err = c.fetchPages(ctx, accessToken, withPublicationOrder(step), limit)
		if err != nil {
			return nil, err
		}
		if len(res.IDs) > 0 {
			metrics.IncSearchFallback(strconv.Itoa(i + 1))
			return res, nil
		}
	}
	return &adapter.SearchResult{}, nil
}

// withPublicationOrder pins order_by=publication_time so the date_from cursor
// walks forward consistently between polling passes; a user-supplied order_by
// loses.
func withPublicationOrder(params []Param) []Param {
	return append(dropKey(params, "order_by"), Param{"order_by", "publication_time"})
}

// fetchPages runs one parameter set. A 400 stops this set and reports
// badRequest so the caller can relax the query; a 401/403/429/5xx retries
// once without the bearer token before giving up on the set.
func (c *Client) fetchPages(ctx context.Context, accessToken string, params []Param, limit int) (res *adapter.SearchResult, badRequest bool, err error) {
	perPage := limit
	if perPage > 100 {
		perPage = 100
	}
	res = &adapter.SearchResult{}
	seen := make(map[int64]struct{}, limit)
	token := accessToken
	droppedAuth := false

	for page := 0; len(res.IDs) < limit && page < 20; page++ {
		qs := Encode(params) + fmt.Sprintf("&per_page=%d&page=%d", perPage, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIBase+"/vacancies?"+qs, nil)
		if err != nil {
			return nil, false, err
		}
		c.headers(req, token)

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn().Err(err).Msg("vacancy search request failed")
			break
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		metrics.IncHHRequest("vacancies", resp.StatusCode)

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusBadRequest:
			return res, true, nil
		case resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden ||
			resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= 500:
			if token != "" && !droppedAuth {
				token = ""
				droppedAuth = true
				page--
				continue
			}
			return res, false, nil
		default:
			return res, false, nil
		}

		var pg searchPage
		if err := json.Unmarshal(body, &pg); err != nil {
			return res, false, nil
		}
		if res.Found == 0 {
			res.Found = pg.Found
		}
		if len(pg.Items) == 0 {
			break
		}
		for _, it := range pg.Items {
			id, err := strconv.ParseInt(strings.TrimSpace(it.ID), 10, 64)
			if err != nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			res.IDs = append(res.IDs, id)
			if len(res.IDs) >= limit {
				break
			}
		}
		// A short page is the last one; asking for more only repeats it.
		if len(pg.Items) < perPage {
			break
		}
	}
	return res, false, nil
}

// ---------- negotiations ----------

type apiError struct {
	Errors []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"errors"`
	BadArguments []struct {
		Name string `json:"name"`
	} `json:"bad_arguments"`
	Description string `json:"description"`
}

// parseErr extracts (code, human) from an HH error body.
func parseErr(body []byte) (string, string) {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return "", string(body)
	}
	code := ""
	if len(e.Errors) > 0 {
		code = e.Errors[0].Value
		if code == "" {
			code = e.Errors[0].Type
		}
	} else if len(e.BadArguments) > 0 {
		code = e.BadArguments[0].Name
	}
	human := e.Description
	if human == "" {
		human = string(body)
	}
	return strings.TrimSpace(code), human
}

func classify(status int, body []byte) *adapter.ApplyError {
	code, human := parseErr(body)
	switch {
	case code == "already_applied" || code == "already_negotiated" || strings.Contains(human, "Already applied"):
		return &adapter.ApplyError{Kind: adapter.ApplyAlreadyApplied, Code: "already_applied", Body: human}
	case code == "test_required" || strings.Contains(strings.ToLower(human), "must process test first"):
		return &adapter.ApplyError{Kind: adapter.ApplyNonRetryable, Code: "test_required", Body: human}
	case code == "letter_required":
		return &adapter.ApplyError{Kind: adapter.ApplyNonRetryable, Code: "letter_required", Body: human}
	case code == "resume_not_found":
		return &adapter.ApplyError{Kind: adapter.ApplyNonRetryable, Code: "resume_not_found", Body: human}
	case code == "vacancy_not_found" ||
		strings.Contains(human, "Vacancy not found") || strings.Contains(human, `"type":"not_found"`):
		return &adapter.ApplyError{Kind: adapter.ApplyNonRetryable, Code: "vacancy_not_found", Body: human}
	case status == http.StatusTooManyRequests || status >= 500:
		return &adapter.ApplyError{Kind: adapter.ApplyRetryable, Code: code, Body: fmt.Sprintf("%d/%s", status, human)}
	}
	return nil
}

// Apply posts the negotiation, falling back to the per-vacancy endpoint when
// the primary one rejects the form.
func (c *Client) Apply(ctx context.Context, accessToken string, vacancyID int64, resumeID, coverLetter string) error {
	form := url.Values{}
	form.Set("vacancy_id", strconv.FormatInt(vacancyID, 10))
	form.Set("resume_id", resumeID)
	if msg := strings.TrimSpace(coverLetter); msg != "" {
		form.Set("message", msg)
	}

	status, body, err := c.postForm(ctx, accessToken, c.cfg.APIBase+"/negotiations", form, "negotiations")
	if err != nil {
		return &adapter.ApplyError{Kind: adapter.ApplyRetryable, Body: err.Error()}
	}
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusUnauthorized {
		return &adapter.ApplyError{Kind: adapter.ApplyUnauthorized, Body: string(body)}
	}
	if ae := classify(status, body); ae != nil && ae.Kind != adapter.ApplyRetryable {
		return ae
	}

	alt := url.Values{}
	alt.Set("resume_id", resumeID)
	if msg := strings.TrimSpace(coverLetter); msg != "" {
		alt.Set("message", msg)
	}
	altURL := fmt.Sprintf("%s/vacancies/%d/negotiations", c.cfg.APIBase, vacancyID)
	status2, body2, err := c.postForm(ctx, accessToken, altURL, alt, "negotiations_alt")
	if err != nil {
		return &adapter.ApplyError{Kind: adapter.ApplyRetryable, Body: err.Error()}
	}
	if status2 >= 200 && status2 < 300 {
		return nil
	}
	if status2 == http.StatusUnauthorized {
		return &adapter.ApplyError{Kind: adapter.ApplyUnauthorized, Body: string(body2)}
	}
	if ae := classify(status2, body2); ae != nil {
		return ae
	}
	if status == http.StatusTooManyRequests || status >= 500 || status2 == http.StatusTooManyRequests || status2 >= 500 {
		return &adapter.ApplyError{Kind: adapter.ApplyRetryable, Body: fmt.Sprintf("rate/server: main %d, alt %d", status, status2)}
	}
	return &adapter.ApplyError{
		Kind: adapter.ApplyRetryable,
		Body: fmt.Sprintf("negotiate failed: %d/%s | alt %d/%s", status, body, status2, body2),
	}
}

func (c *Client) postForm(ctx context.Context, accessToken, rawURL string, form url.Values, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	c.headers(req, accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	metrics.IncHHRequest(endpoint, resp.StatusCode)
	return resp.StatusCode, body, nil
}

// ---------- profile ----------

type resumesPage struct {
	Items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Area  struct {
			Name string `json:"name"`
		} `json:"area"`
		Access struct {
			Type struct {
				ID string `json:"id"`
			} `json:"type"`
		} `json:"access"`
		UpdatedAt string `json:"updated_at"`
	} `json:"items"`
}

func (c *Client) GetResumes(ctx context.Context, accessToken string) ([]adapter.ResumeInfo, error) {
	body, err := c.getJSON(ctx, accessToken, c.cfg.APIBase+"/resumes/mine", "resumes_mine")
	if err != nil {
		return nil, err
	}
	var pg resumesPage
	if err := json.Unmarshal(body, &pg); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	out := make([]adapter.ResumeInfo, 0, len(pg.Items))
	for _, it := range pg.Items {
		ri := adapter.ResumeInfo{
			ID:      it.ID,
			Title:   it.Title,
			Area:    it.Area.Name,
			Visible: it.Access.Type.ID != "no_one",
		}
		if t, err := time.Parse("2006-01-02T15:04:05-0700", it.UpdatedAt); err == nil {
			utc := t.UTC()
			ri.UpdatedAt = &utc
		}
		out = append(out, ri)
	}
	return out, nil
}

func (c *Client) GetMe(ctx context.Context, accessToken string) (*adapter.Profile, error) {
	body, err := c.getJSON(ctx, accessToken, c.cfg.APIBase+"/me", "me")
	if err != nil {
		return nil, err
	}
	var p struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode me: %w", err)
	}
	return &adapter.Profile{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}, nil
}

func (c *Client) getJSON(ctx context.Context, accessToken, rawURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.headers(req, accessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	metrics.IncHHRequest(endpoint, resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &adapter.ApplyError{Kind: adapter.ApplyUnauthorized, Body: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hh %s: %d/%s", endpoint, resp.StatusCode, body)
	}
	return body, nil
}

// ---------- oauth ----------

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*adapter.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code", code)
	return c.tokenRequest(ctx, form)
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*adapter.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.tokenRequest(ctx, form)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*adapter.TokenPair, error) {
	status, body, err := c.postForm(ctx, "", c.cfg.OAuthBase+"/oauth/token", form, "oauth_token")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("oauth token: %d/%s", status, body)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("oauth token: empty access_token")
	}
	if tr.TokenType == "" {
		tr.TokenType = "bearer"
	}
	return &adapter.TokenPair{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		ExpiresIn:    tr.ExpiresIn,
	}, nil
}

// AuthorizeURL builds the user-facing OAuth entry link carrying state.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("state", state)
	q.Set("scope", "applicant_resumes offline")
	return c.cfg.OAuthBase + "/oauth/authorize?" + q.Encode()
}
