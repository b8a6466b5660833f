// File: internal/infra/web/server.go
package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hh-offerbot/internal/infra/logging"
	"hh-offerbot/internal/usecase"
)

// Server is the HTTP control surface: the bot frontend and the admin tooling
// drive the system through it. Payment webhooks and the OAuth callback are
// public; everything under /api/v1 needs the admin bearer key.
type Server struct {
	users     usecase.UserUseCase
	tokens    usecase.TokenUseCase
	saved     usecase.SavedRequestUseCase
	campaigns usecase.CampaignUseCase
	dispatch  usecase.DispatchUseCase
	quota     usecase.QuotaUseCase
	refs      usecase.ReferralUseCase
	notify    usecase.NotificationUseCase
	payments  usecase.PaymentUseCase
	apps      usecase.ApplicationUseCase

	adminKey  string
	returnURL string
	log       *zerolog.Logger
}

func NewServer(
	users usecase.UserUseCase,
	tokens usecase.TokenUseCase,
	saved usecase.SavedRequestUseCase,
	campaigns usecase.CampaignUseCase,
	dispatch usecase.DispatchUseCase,
	quota usecase.QuotaUseCase,
	refs usecase.ReferralUseCase,
	notify usecase.NotificationUseCase,
	payments usecase.PaymentUseCase,
	apps usecase.ApplicationUseCase,
	adminKey, returnURL string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		users: users, tokens: tokens, saved: saved, campaigns: campaigns,
		dispatch: dispatch, quota: quota, refs: refs, notify: notify,
		payments: payments, apps: apps,
		adminKey: adminKey, returnURL: returnURL, log: logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.traceMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public surfaces: HH redirects the user's browser here, CP posts here.
	r.Get("/hh/callback", s.hhCallback)
	r.Route("/webhooks/cloudpayments", func(r chi.Router) {
		r.Post("/check", s.cpCheck)
		r.Post("/pay", s.cpPay)
		r.Post("/fail", s.cpFail)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/users/seen", s.userSeen)
		r.Post("/users/register", s.userSeen)
		r.Post("/users/utm", s.userSeen)
		r.Post("/dispatch", s.dispatchOnce)
		r.Post("/notifications/broadcast", s.broadcast)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/profile", s.userProfile)
			r.Get("/stats", s.userStats)
			r.Get("/quota", s.userQuota)
			r.Get("/subscription", s.userSubscription)

			r.Get("/hh/login", s.hhLogin)
			r.Get("/hh/status", s.hhStatus)
			r.Post("/hh/refresh", s.hhRefresh)
			r.Delete("/hh", s.hhUnlink)
			r.Get("/resumes", s.resumesList)
			r.Post("/resumes/sync", s.resumesSync)

			r.Route("/saved-requests", func(r chi.Router) {
				r.Get("/", s.savedRequestList)
				r.Post("/", s.savedRequestCreate)
				r.Get("/{id}", s.savedRequestGet)
				r.Delete("/{id}", s.savedRequestDelete)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", s.campaignList)
				r.Post("/", s.campaignUpsert)
				r.Get("/{id}", s.campaignGet)
				r.Delete("/{id}", s.campaignDelete)
				r.Post("/{id}/start", s.campaignStart)
				r.Post("/{id}/stop", s.campaignStop)
				r.Post("/{id}/send_now", s.campaignSendNow)
			})

			r.Get("/applications", s.applicationList)
			r.Post("/applications", s.applicationEnqueue)
			r.Get("/applications/{id}", s.applicationGet)

			r.Route("/referrals", func(r chi.Router) {
				r.Get("/stats", s.referralStats)
				r.Post("/code", s.referralCode)
				r.Post("/track", s.referralTrack)
			})
		})
	})

	return r
}

// traceMiddleware tags the request context and response with a ulid trace id.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = ulid.Make().String()
		}
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-Id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			s.log.Error().Msg("admin key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}
		if tokenParts[1] != s.adminKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
