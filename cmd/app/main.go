// File: cmd/app/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hh-offerbot/internal/config"
	"hh-offerbot/internal/infra/clock"
	pg "hh-offerbot/internal/infra/db/postgres"
	"hh-offerbot/internal/infra/hh"
	"hh-offerbot/internal/infra/logging"
	"hh-offerbot/internal/infra/metrics"
	red "hh-offerbot/internal/infra/redis"
	"hh-offerbot/internal/infra/sched"
	"hh-offerbot/internal/infra/telegram"
	"hh-offerbot/internal/infra/web"
	"hh-offerbot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	states := red.NewStateStore(redisClient)

	// ---- Adapters ----
	hhClient := hh.NewClient(cfg.HH, logger)
	sender, err := telegram.NewSender(cfg.Bot.Token, cfg.Payment.ReturnBotURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram sender")
	}

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	tokenRepo := pg.NewPostgresTokenRepo(pool)
	resumeRepo := pg.NewPostgresResumeRepo(pool)
	savedRepo := pg.NewPostgresSavedRequestRepo(pool)
	campaignRepo := pg.NewPostgresCampaignRepo(pool)
	appRepo := pg.NewPostgresApplicationRepo(pool)
	notifRepo := pg.NewPostgresNotificationRepo(pool)
	subRepo := pg.NewPostgresSubscriptionRepo(pool)
	tariffRepo := pg.NewPostgresTariffRepo(pool)
	paymentRepo := pg.NewPostgresPaymentRepo(pool)
	referralRepo := pg.NewPostgresReferralRepo(pool)
	txm := pg.NewTxManager(pool)

	clk := clock.System()

	// ---- Use cases ----
	referralUC := usecase.NewReferralUseCase(userRepo, referralRepo, logger)
	quotaUC := usecase.NewQuotaUseCase(appRepo, subRepo, cfg.Quota, clk)
	notifyUC := usecase.NewNotificationUseCase(notifRepo, subRepo, userRepo, txm, sender, clk, logger)
	tokenUC := usecase.NewTokenUseCase(hhClient, tokenRepo, userRepo, resumeRepo, referralUC, sender, states, locker, txm, clk, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, subRepo, tariffRepo, userRepo, referralUC, txm, clk, cfg.Payment.CloudPayments.APISecret, logger)
	dispatchUC := usecase.NewDispatchUseCase(appRepo, tokenUC, quotaUC, notifyUC, hhClient, txm, clk, logger)
	campaignUC := usecase.NewCampaignUseCase(campaignRepo, appRepo, resumeRepo, tokenUC, quotaUC, notifyUC, hhClient, txm, clk, cfg.Scheduler.AutoPollEvery, logger)
	userUC := usecase.NewUserUseCase(userRepo, tokenRepo, appRepo, subRepo, referralUC, quotaUC)
	savedUC := usecase.NewSavedRequestUseCase(savedRepo)
	appUC := usecase.NewApplicationUseCase(appRepo, resumeRepo, quotaUC, notifyUC, txm, logger)

	// ---- Workers ----
	go func() { _ = sched.NewDispatchWorker(cfg.Scheduler.DispatchEvery, dispatchUC, logger).Run(ctx) }()
	go func() { _ = sched.NewCampaignWorker(cfg.Scheduler.AutoPollEvery, campaignUC, logger).Run(ctx) }()
	if cfg.Scheduler.NotifierEnabled {
		go func() { _ = sched.NewNotificationWorker(cfg.Scheduler.NotifierEvery, notifyUC, logger).Run(ctx) }()
	} else {
		logger.Info().Msg("notification worker disabled")
	}

	// ---- HTTP ----
	srv := web.NewServer(userUC, tokenUC, savedUC, campaignUC, dispatchUC,
		quotaUC, referralUC, notifyUC, paymentUC, appUC, cfg.Web.AdminKey, cfg.Payment.ReturnBotURL, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
