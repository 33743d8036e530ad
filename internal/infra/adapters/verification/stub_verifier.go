// File: internal/infra/adapters/verification/stub_verifier.go
package verification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"upi-subscription-api/internal/domain"
	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/domain/ports/adapter"
	"upi-subscription-api/internal/domain/ports/repository"
	"upi-subscription-api/internal/infra/metrics"
)

var _ adapter.TransactionVerifier = (*StubVerifier)(nil)

const (
	minTransactionIDLen = 8
	maxTransactionIDLen = 50
)

// StubVerifier stands in for a real payment gateway. It accepts any
// well-formed, never-before-seen transaction id, after a fixed delay that
// simulates the provider round trip. A real gateway integration replaces
// this adapter; the activation workflow does not change.
type StubVerifier struct {
	ledger repository.TransactionLedger
	delay  time.Duration
	log    *zerolog.Logger
}

func NewStubVerifier(ledger repository.TransactionLedger, delay time.Duration, logger *zerolog.Logger) *StubVerifier {
	l := logger.With().Str("component", "StubVerifier").Logger()
	return &StubVerifier{ledger: ledger, delay: delay, log: &l}
}

func (v *StubVerifier) Name() string { return "stub" }

// Verify applies the policy in order: format check, simulated latency, then
// one atomic claim on the ledger. The claim covers both the replay check and
// the insertion, so concurrent submissions of one id cannot both pass.
// Rejection never touches the ledger.
func (v *StubVerifier) Verify(ctx context.Context, transactionID string, pending *model.PendingPayment) error {
	if len(transactionID) < minTransactionIDLen || len(transactionID) > maxTransactionIDLen {
		metrics.IncTransactionRejected("format")
		return domain.ErrInvalidTransaction
	}

	// Simulated provider latency. Callers wait unconditionally.
	if v.delay > 0 {
		time.Sleep(v.delay)
	}

	ok, err := v.ledger.Claim(ctx, transactionID)
	if err != nil {
		return err
	}
	if !ok {
		v.log.Warn().Str("transaction_id", transactionID).Msg("transaction id already used")
		metrics.IncTransactionRejected("replay")
		return domain.ErrInvalidTransaction
	}
	v.log.Info().Str("transaction_id", transactionID).Msg("transaction id marked as used")
	return nil
}
