package repository

import (
	"context"

	"upi-subscription-api/internal/domain/model"
)

// SubscriptionEntry pairs a subscription with its subscriber key for listings.
type SubscriptionEntry struct {
	PhoneNumber  string
	Subscription *model.Subscription
}

// SubscriptionRepository is the port for confirmed subscriptions, keyed by
// subscriber phone number. One subscription per phone number; Save overwrites
// any previous record without retaining history.
type SubscriptionRepository interface {
	Save(ctx context.Context, phoneNumber string, sub *model.Subscription) error
	// Find returns nil (no error) when the phone number has no subscription.
	Find(ctx context.Context, phoneNumber string) (*model.Subscription, error)
	ListAll(ctx context.Context) ([]SubscriptionEntry, error)
}
