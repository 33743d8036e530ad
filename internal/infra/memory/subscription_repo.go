// File: internal/infra/memory/subscription_repo.go
package memory

import (
	"context"
	"sync"

	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo keys subscriptions by phone number, one record per
// subscriber. Save overwrites; no history is retained.
type SubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription
}

func NewSubscriptionRepo() *SubscriptionRepo {
	return &SubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (r *SubscriptionRepo) Save(ctx context.Context, phoneNumber string, sub *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs[phoneNumber] = &cp
	return nil
}

func (r *SubscriptionRepo) Find(ctx context.Context, phoneNumber string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[phoneNumber]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (r *SubscriptionRepo) ListAll(ctx context.Context) ([]repository.SubscriptionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.SubscriptionEntry, 0, len(r.subs))
	for phone, sub := range r.subs {
		cp := *sub
		out = append(out, repository.SubscriptionEntry{PhoneNumber: phone, Subscription: &cp})
	}
	return out, nil
}
