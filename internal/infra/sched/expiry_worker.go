// File: internal/infra/sched/expiry_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"upi-subscription-api/internal/domain/ports/repository"
	"upi-subscription-api/internal/infra/metrics"
)

// ExpiryWorker periodically sweeps the subscription store and publishes
// active/expired gauges. Status itself stays lazily evaluated on reads; the
// sweep only observes, it never writes.
type ExpiryWorker struct {
	interval    time.Duration
	subs        repository.SubscriptionRepository
	log         *zerolog.Logger
	lastExpired int
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subs: subs, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	entries, err := w.subs.ListAll(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}

	now := time.Now()
	active, expired := 0, 0
	for _, e := range entries {
		if e.Subscription.View(now).IsActive {
			active++
		} else {
			expired++
		}
	}
	metrics.SetSubscriptionCounts(active, expired)

	if expired > w.lastExpired {
		w.log.Info().Int("count", expired-w.lastExpired).Msg("subscriptions newly expired")
	}
	w.lastExpired = expired
}
