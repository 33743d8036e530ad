package domain

import "errors"

var (
	// Client input errors (HTTP 400).
	ErrMissingField       = errors.New("name, amount, planType, and phoneNumber are required")
	ErrInvalidAmount      = errors.New("invalid amount, only 49, 149, or 499 are allowed")
	ErrInvalidPlanType    = errors.New("invalid plan type, only weekly, monthly, or lifetime are allowed")
	ErrInvalidPhoneNumber = errors.New("invalid phone number, must be 10 digits")
	ErrInvalidUPIAddress  = errors.New("invalid UPI address format")

	// Lookup errors (HTTP 404).
	ErrSessionNotFound = errors.New("payment session not found or expired")
	ErrNoSubscription  = errors.New("no subscription for phone number")

	// Verification errors (HTTP 400).
	ErrInvalidTransaction = errors.New("transaction could not be verified")

	// Server-side errors (HTTP 500).
	ErrQRRenderFailure = errors.New("failed to generate QR code")
)
