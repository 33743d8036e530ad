// File: internal/infra/memory/session_repo.go
package memory

import (
	"context"
	"sync"

	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/domain/ports/repository"
)

var _ repository.PaymentSessionRepository = (*PaymentSessionRepo)(nil)

// PaymentSessionRepo is the process-lifetime pending payment store. State is
// deliberately memory-resident and resets on restart.
type PaymentSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.PendingPayment
}

func NewPaymentSessionRepo() *PaymentSessionRepo {
	return &PaymentSessionRepo{sessions: make(map[string]*model.PendingPayment)}
}

func (r *PaymentSessionRepo) Put(ctx context.Context, sessionID string, p *model.PendingPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.sessions[sessionID] = &cp
	return nil
}

func (r *PaymentSessionRepo) Get(ctx context.Context, sessionID string) (*model.PendingPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Take removes the session under the same lock as the lookup. When the
// explicit and implicit activation paths race for one session, exactly one
// caller gets ok=true; the loser observes the session as already gone.
func (r *PaymentSessionRepo) Take(ctx context.Context, sessionID string) (*model.PendingPayment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	delete(r.sessions, sessionID)
	return p, true, nil
}
