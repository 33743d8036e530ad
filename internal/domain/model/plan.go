package model

import (
	"regexp"
	"time"

	"upi-subscription-api/internal/domain"
)

type PlanType string

const (
	PlanWeekly   PlanType = "weekly"
	PlanMonthly  PlanType = "monthly"
	PlanLifetime PlanType = "lifetime"
)

// ParsePlanType validates a raw plan type string.
func ParsePlanType(s string) (PlanType, error) {
	switch PlanType(s) {
	case PlanWeekly, PlanMonthly, PlanLifetime:
		return PlanType(s), nil
	}
	return "", domain.ErrInvalidPlanType
}

// Duration is the fixed access term granted on activation.
// "lifetime" is deliberately modeled as a long fixed term (365 days),
// matching the product's pricing terms; it does not mean indefinite.
func (p PlanType) Duration() time.Duration {
	switch p {
	case PlanWeekly:
		return 7 * 24 * time.Hour
	case PlanMonthly:
		return 30 * 24 * time.Hour
	case PlanLifetime:
		return 365 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// The three fixed price points, kept as strings because the API accepts and
// echoes amounts verbatim (they also feed the UPI link's am= parameter).
var validAmounts = map[string]struct{}{
	"49":  {},
	"149": {},
	"499": {},
}

// ValidateAmount checks the amount against the fixed price points.
// Amount and plan type are validated independently, as the pricing page
// always submits matching pairs.
func ValidateAmount(amount string) error {
	if _, ok := validAmounts[amount]; !ok {
		return domain.ErrInvalidAmount
	}
	return nil
}

var phoneRe = regexp.MustCompile(`^\d{10}$`)

// ValidatePhoneNumber requires exactly 10 ASCII digits.
func ValidatePhoneNumber(phone string) error {
	if !phoneRe.MatchString(phone) {
		return domain.ErrInvalidPhoneNumber
	}
	return nil
}
