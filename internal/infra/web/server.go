// File: internal/infra/web/server.go
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"upi-subscription-api/internal/infra/logging"
	red "upi-subscription-api/internal/infra/redis"
	"upi-subscription-api/internal/upi"
	"upi-subscription-api/internal/usecase"
)

type Server struct {
	paymentUC    usecase.PaymentUseCase
	subUC        usecase.SubscriptionUseCase
	registry     *upi.Registry
	limiter      *red.RateLimiter // nil when redis is not configured
	rateLimit    int
	merchantName string
	publicDir    string
	log          *zerolog.Logger
}

func NewServer(
	paymentUC usecase.PaymentUseCase,
	subUC usecase.SubscriptionUseCase,
	registry *upi.Registry,
	limiter *red.RateLimiter,
	rateLimit int,
	merchantName string,
	publicDir string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		paymentUC:    paymentUC,
		subUC:        subUC,
		registry:     registry,
		limiter:      limiter,
		rateLimit:    rateLimit,
		merchantName: merchantName,
		publicDir:    publicDir,
		log:          &l,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(s.requestLogger)

	r.Post("/generate-upi", s.handleGenerateUPI)
	r.Post("/verify-transaction", s.handleVerifyTransaction)
	r.Get("/payment-status/{paymentSessionId}", s.handlePaymentStatus)
	r.Get("/subscription-status/{phoneNumber}", s.handleSubscriptionStatus)
	r.Get("/subscription-status/{phoneNumber}/{paymentSessionId}", s.handleCombinedStatus)

	r.Get("/all-subscriptions", s.handleAllSubscriptions)
	r.Get("/used-transaction-ids", s.handleUsedTransactionIDs)

	r.Get("/upi-status", s.handleUPIStatus)
	r.Post("/change-upi", s.handleChangeUPI)
	r.Get("/test-upi", s.handleTestUPI)

	r.Get("/", s.handleRoot)
	r.Get("/pricing", s.handlePricing)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// corsMiddleware mirrors the permissive policy the pricing page depends on:
// any origin, preflight answered 200 with no body.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
