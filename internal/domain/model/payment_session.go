package model

import (
	"time"

	"upi-subscription-api/internal/domain"
)

// PaymentSessionStatus is constant while the session exists; a session is
// deleted on activation rather than transitioned.
const PaymentSessionStatusPending = "pending"

// PendingPayment is a not-yet-confirmed payment request awaiting a
// transaction id. It is created by the generate-link workflow and removed
// exactly once by the activation workflow; it is never mutated in between.
type PendingPayment struct {
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	PlanType    PlanType  `json:"planType"`
	PhoneNumber string    `json:"phoneNumber"`
	UPIID       string    `json:"upiId"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
}

// NewPendingPayment validates the raw request fields in order and builds the
// record. Validation order is part of the API contract: missing fields, then
// amount, then plan type, then phone number.
func NewPendingPayment(name, amount, planType, phoneNumber, upiID string, now time.Time) (*PendingPayment, error) {
	if name == "" || amount == "" || planType == "" || phoneNumber == "" {
		return nil, domain.ErrMissingField
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	plan, err := ParsePlanType(planType)
	if err != nil {
		return nil, err
	}
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	return &PendingPayment{
		Name:        name,
		Amount:      amount,
		PlanType:    plan,
		PhoneNumber: phoneNumber,
		UPIID:       upiID,
		CreatedAt:   now,
		Status:      PaymentSessionStatusPending,
	}, nil
}
