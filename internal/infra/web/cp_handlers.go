// File: internal/infra/web/cp_handlers.go
package web

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hh-offerbot/internal/infra/logging"
	"hh-offerbot/internal/usecase"
)

// CloudPayments posts callbacks either form-encoded or as JSON, signs the raw
// body with HMAC-SHA256 and expects {"code":0} back. Returning an error status
// makes the provider retry, so business refusals are still code 0.

const cpHMACHeader = "Content-HMAC"

type cpEvent struct {
	TransactionID string
	TgID          int64
	Plan          string
	AmountCents   int64
	Raw           []byte
}

func (s *Server) cpCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.readCPEvent(w, r); !ok {
		return
	}
	// Pre-payment validation point; the real work happens on pay.
	writeJSON(w, http.StatusOK, map[string]int{"code": 0})
}

func (s *Server) cpPay(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.readCPEvent(w, r)
	if !ok {
		return
	}
	err := s.payments.HandlePaid(r.Context(), usecase.PaidEvent{
		TransactionID: ev.TransactionID,
		TgID:          ev.TgID,
		PlanCode:      ev.Plan,
		AmountCents:   ev.AmountCents,
		Raw:           ev.Raw,
	})
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Str("txn", ev.TransactionID).Msg("pay callback failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"code": 0})
}

func (s *Server) cpFail(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.readCPEvent(w, r)
	if !ok {
		return
	}
	err := s.payments.HandleFailed(r.Context(), usecase.FailedEvent{
		TransactionID: ev.TransactionID,
		AmountCents:   ev.AmountCents,
		Raw:           ev.Raw,
	})
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Str("txn", ev.TransactionID).Msg("fail callback failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"code": 0})
}

// readCPEvent verifies the signature over the raw body and parses the
// payload. On failure it has already written the response.
func (s *Server) readCPEvent(w http.ResponseWriter, r *http.Request) (*cpEvent, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return nil, false
	}
	if !s.payments.VerifySignature(raw, r.Header.Get(cpHMACHeader)) {
		logging.With(r.Context(), s.log).Warn().Msg("cloudpayments signature mismatch")
		http.Error(w, "bad signature", http.StatusUnauthorized)
		return nil, false
	}
	ev, err := parseCPEvent(raw, r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return nil, false
	}
	return ev, true
}

func parseCPEvent(raw []byte, contentType string) (*cpEvent, error) {
	fields := map[string]string{}
	if strings.Contains(contentType, "application/json") {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		for k, v := range m {
			switch t := v.(type) {
			case string:
				fields[k] = t
			case float64:
				fields[k] = strconv.FormatFloat(t, 'f', -1, 64)
			case map[string]any:
				b, _ := json.Marshal(t)
				fields[k] = string(b)
			}
		}
	} else {
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, err
		}
		for k := range vals {
			fields[k] = vals.Get(k)
		}
	}

	ev := &cpEvent{
		TransactionID: fields["TransactionId"],
		Raw:           raw,
	}
	if acc := fields["AccountId"]; acc != "" {
		ev.TgID, _ = strconv.ParseInt(acc, 10, 64)
	}
	ev.AmountCents = amountToCents(fields["Amount"])

	// The plan code travels in the free-form Data blob.
	if data := fields["Data"]; data != "" {
		var d struct {
			Plan string `json:"plan"`
		}
		if err := json.Unmarshal([]byte(data), &d); err == nil {
			ev.Plan = d.Plan
		}
	}
	return ev, nil
}

// amountToCents parses the provider's decimal ruble amount, e.g. "990.00".
func amountToCents(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}
