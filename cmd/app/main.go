// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upi-subscription-api/internal/config"
	qrAdapter "upi-subscription-api/internal/infra/adapters/qr"
	"upi-subscription-api/internal/infra/adapters/verification"
	"upi-subscription-api/internal/infra/logging"
	"upi-subscription-api/internal/infra/memory"
	"upi-subscription-api/internal/infra/metrics"
	red "upi-subscription-api/internal/infra/redis"
	"upi-subscription-api/internal/infra/sched"
	"upi-subscription-api/internal/infra/web"
	"upi-subscription-api/internal/ident"
	"upi-subscription-api/internal/upi"
	"upi-subscription-api/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Stores (process-lifetime, memory-resident by design) ----
	sessions := memory.NewPaymentSessionRepo()
	subs := memory.NewSubscriptionRepo()
	ledger := memory.NewTransactionLedger()

	// ---- Adapters ----
	ids := ident.NewGenerator()
	registry := upi.NewRegistry(cfg.UPI.PayeeID)
	renderer := qrAdapter.NewRenderer(cfg.QR.Size)
	verifier := verification.NewStubVerifier(ledger, cfg.Payment.VerifyDelay.Std(), logger)

	// ---- Redis (optional) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		limiter = red.NewRateLimiter(client)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("rate limiting enabled")
	}

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(sessions, ids, renderer, registry, cfg.UPI.MerchantName, logger)
	subUC := usecase.NewSubscriptionUseCase(sessions, subs, ledger, verifier, ids, logger)

	// ---- HTTP server ----
	srv := web.NewServer(paymentUC, subUC, registry, limiter, cfg.RateLimit.PerMinute, cfg.UPI.MerchantName, "public", logger)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry sweep ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpirySweepInterval.Std(), subs, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
