// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"upi-subscription-api/internal/domain"
	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/domain/ports/adapter"
	"upi-subscription-api/internal/domain/ports/repository"
	"upi-subscription-api/internal/ident"
	"upi-subscription-api/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// CombinedStatus is the result of the combined status/auto-activation query.
// Subscription is nil when the phone number has none; Pending is nil when
// the session does not exist (or was consumed by this very call).
type CombinedStatus struct {
	Subscription *model.Subscription
	Pending      *model.PendingPayment
}

type SubscriptionUseCase interface {
	// VerifyTransaction runs the explicit activation path: look up the
	// pending session, verify the supplied transaction id, and commit.
	// A rejected id leaves the session in place for a retry.
	VerifyTransaction(ctx context.Context, sessionID, transactionID string) (*model.Subscription, error)
	// Status returns the stored subscription for a phone number, nil if none.
	Status(ctx context.Context, phoneNumber string) (*model.Subscription, error)
	// Combined runs the implicit path: if the session is pending and the
	// phone number has no subscription, activate with a minted auto
	// transaction id. An existing subscription takes precedence and leaves
	// the session untouched.
	Combined(ctx context.Context, phoneNumber, sessionID string) (*CombinedStatus, error)
	// ListAll dumps every stored subscription (debug listing).
	ListAll(ctx context.Context) ([]repository.SubscriptionEntry, error)
	// UsedTransactionIDs dumps the transaction ledger (debug listing).
	UsedTransactionIDs(ctx context.Context) ([]string, error)
}

type subscriptionUC struct {
	sessions repository.PaymentSessionRepository
	subs     repository.SubscriptionRepository
	ledger   repository.TransactionLedger
	verifier adapter.TransactionVerifier
	ids      *ident.Generator
	log      *zerolog.Logger
}

func NewSubscriptionUseCase(
	sessions repository.PaymentSessionRepository,
	subs repository.SubscriptionRepository,
	ledger repository.TransactionLedger,
	verifier adapter.TransactionVerifier,
	ids *ident.Generator,
	logger *zerolog.Logger,
) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{
		sessions: sessions,
		subs:     subs,
		ledger:   ledger,
		verifier: verifier,
		ids:      ids,
		log:      &l,
	}
}

func (u *subscriptionUC) VerifyTransaction(ctx context.Context, sessionID, transactionID string) (*model.Subscription, error) {
	pending, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, domain.ErrSessionNotFound
	}

	if err := u.verifier.Verify(ctx, transactionID, pending); err != nil {
		// Session stays pending so the user can retry with a corrected id.
		return nil, err
	}

	// Atomic take: if the implicit path consumed the session while we were
	// verifying, the session is gone and we must not activate again. The
	// verified id stays burned in the ledger; the ledger only grows.
	taken, ok, err := u.sessions.Take(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return u.commit(ctx, taken, taken.PhoneNumber, transactionID, "manual")
}

func (u *subscriptionUC) Status(ctx context.Context, phoneNumber string) (*model.Subscription, error) {
	return u.subs.Find(ctx, phoneNumber)
}

func (u *subscriptionUC) Combined(ctx context.Context, phoneNumber, sessionID string) (*CombinedStatus, error) {
	pending, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sub, err := u.subs.Find(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	if pending != nil && sub == nil {
		autoID, err := u.ledger.MintAuto(ctx, ident.AutoTransactionBase(time.Now()))
		if err != nil {
			return nil, err
		}
		taken, ok, err := u.sessions.Take(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if ok {
			// Keyed by the queried phone number, not the one on the session:
			// the subscription must be retrievable by whoever polled it into
			// existence.
			sub, err = u.commit(ctx, taken, phoneNumber, autoID, "auto")
			if err != nil {
				return nil, err
			}
			u.log.Info().
				Str("session_id", sessionID).
				Str("transaction_id", autoID).
				Str("amount", taken.Amount).
				Msg("plan auto-activated via payment session")
		} else {
			// Lost the race against the explicit path: report whatever
			// subscription that activation produced.
			sub, err = u.subs.Find(ctx, phoneNumber)
			if err != nil {
				return nil, err
			}
		}
		// Either way the session is consumed now.
		pending = nil
	}

	return &CombinedStatus{Subscription: sub, Pending: pending}, nil
}

// commit is the shared activation step: fix the expiry from the plan term,
// overwrite the subscription stored under phoneNumber, and report metrics.
// The explicit path keys by the phone on the session; the implicit path keys
// by the phone in the query. The pending session has already been removed by
// the caller's atomic take.
func (u *subscriptionUC) commit(ctx context.Context, pending *model.PendingPayment, phoneNumber, transactionID, mode string) (*model.Subscription, error) {
	now := time.Now()
	sub := model.NewSubscription(u.ids.NewSubscriptionID(), pending.Amount, transactionID, pending.PlanType, now)
	if err := u.subs.Save(ctx, phoneNumber, sub); err != nil {
		return nil, err
	}
	metrics.IncActivation(mode, string(pending.PlanType))
	u.log.Info().
		Str("subscription_id", sub.SubscriptionID).
		Str("plan", string(pending.PlanType)).
		Str("mode", mode).
		Msg("plan activated")
	return sub, nil
}

func (u *subscriptionUC) ListAll(ctx context.Context) ([]repository.SubscriptionEntry, error) {
	return u.subs.ListAll(ctx)
}

func (u *subscriptionUC) UsedTransactionIDs(ctx context.Context) ([]string, error) {
	return u.ledger.ListAll(ctx)
}
