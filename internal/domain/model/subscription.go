package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// Subscription is a confirmed, time-bounded access grant keyed by subscriber
// phone number. Only the activation-time fields are stored; active/expired is
// derived at read time (see View), never persisted.
type Subscription struct {
	SubscriptionID string    `json:"subscriptionId"`
	PlanType       PlanType  `json:"planType"`
	Amount         string    `json:"amount"`
	TransactionID  string    `json:"transactionId"`
	ActivatedAt    time.Time `json:"activatedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// NewSubscription fixes the expiry at activation: expiry = now + plan term.
// The expiry is never recomputed afterwards.
func NewSubscription(id, amount, transactionID string, plan PlanType, now time.Time) *Subscription {
	return &Subscription{
		SubscriptionID: id,
		PlanType:       plan,
		Amount:         amount,
		TransactionID:  transactionID,
		ActivatedAt:    now,
		ExpiresAt:      now.Add(plan.Duration()),
	}
}

// SubscriptionView is the evaluated, client-facing shape of a subscription.
// StartDate/EndDate duplicate the activation and expiry instants under the
// names some clients already consume.
type SubscriptionView struct {
	SubscriptionID string             `json:"subscriptionId"`
	PlanType       PlanType           `json:"planType"`
	Amount         string             `json:"amount"`
	TransactionID  string             `json:"transactionId"`
	ActivatedAt    time.Time          `json:"activatedAt"`
	ExpiresAt      time.Time          `json:"expiresAt"`
	StartDate      time.Time          `json:"startDate"`
	EndDate        time.Time          `json:"endDate"`
	Status         SubscriptionStatus `json:"status"`
	IsActive       bool               `json:"isActive"`
}

// View evaluates the subscription at the given instant. The transition is
// one-way by construction: once now passes ExpiresAt every subsequent
// evaluation reports expired.
func (s *Subscription) View(now time.Time) SubscriptionView {
	status := SubscriptionStatusActive
	if now.After(s.ExpiresAt) {
		status = SubscriptionStatusExpired
	}
	return SubscriptionView{
		SubscriptionID: s.SubscriptionID,
		PlanType:       s.PlanType,
		Amount:         s.Amount,
		TransactionID:  s.TransactionID,
		ActivatedAt:    s.ActivatedAt,
		ExpiresAt:      s.ExpiresAt,
		StartDate:      s.ActivatedAt,
		EndDate:        s.ExpiresAt,
		Status:         status,
		IsActive:       status == SubscriptionStatusActive,
	}
}

// NoSubscriptionView is returned for phone numbers with no stored record.
type NoSubscriptionView struct {
	IsActive bool   `json:"isActive"`
	Status   string `json:"status"`
}

func NoSubscription() NoSubscriptionView {
	return NoSubscriptionView{IsActive: false, Status: "no_subscription"}
}
