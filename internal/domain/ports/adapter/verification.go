package adapter

import (
	"context"

	"upi-subscription-api/internal/domain/model"
)

// TransactionVerifier is the hex port for payment verification. The shipped
// implementation is a gateway stub; a real provider integration substitutes
// here without touching the activation workflow.
//
// Verify returns nil when the transaction id is accepted. Acceptance consumes
// the id: a verifier must never accept the same id twice, across any
// sessions. Rejection must leave no trace.
type TransactionVerifier interface {
	Name() string
	Verify(ctx context.Context, transactionID string, pending *model.PendingPayment) error
}
