package repository

import (
	"context"

	"upi-subscription-api/internal/domain/model"
)

// PaymentSessionRepository is the port for pending payment sessions.
type PaymentSessionRepository interface {
	// Put stores a pending payment under its session id.
	Put(ctx context.Context, sessionID string, p *model.PendingPayment) error
	// Get returns the pending payment, or nil if the session is unknown.
	Get(ctx context.Context, sessionID string) (*model.PendingPayment, error)
	// Take removes and returns the pending payment as a single atomic step.
	// A session can be taken at most once; concurrent callers race and
	// exactly one observes ok=true.
	Take(ctx context.Context, sessionID string) (*model.PendingPayment, bool, error)
}
