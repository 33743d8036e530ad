// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"upi-subscription-api/internal/domain"
	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/infra/logging"
	red "upi-subscription-api/internal/infra/redis"
	"upi-subscription-api/internal/usecase"
)

type generateUPIRequest struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	PlanType    string `json:"planType"`
	PhoneNumber string `json:"phoneNumber"`
}

type upiDetails struct {
	UPIID             string   `json:"upiId"`
	Amount            string   `json:"amount"`
	PlanType          string   `json:"planType"`
	Description       string   `json:"description"`
	AlternativeUPIIDs []string `json:"alternativeUpiIds"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleGenerateUPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateUPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, amount, planType, and phoneNumber are required")
		return
	}

	if s.limiter != nil && req.PhoneNumber != "" {
		key := red.PhoneKey(req.PhoneNumber, "generate-upi")
		allowed, err := s.limiter.Allow(ctx, key, s.rateLimit, time.Minute)
		if err != nil {
			// Fail open: a broken limiter must not take payments down.
			logging.With(ctx, s.log).Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "Too many payment requests. Please wait a minute and try again.")
			return
		}
	}

	res, err := s.paymentUC.GenerateLink(ctx, usecase.GenerateLinkRequest{
		Name:        req.Name,
		Amount:      req.Amount,
		PlanType:    req.PlanType,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingField):
			writeError(w, http.StatusBadRequest, "Name, amount, planType, and phoneNumber are required")
		case errors.Is(err, domain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "Invalid amount. Only ₹49/week, ₹149/month, or ₹499/lifetime are allowed.")
		case errors.Is(err, domain.ErrInvalidPlanType):
			writeError(w, http.StatusBadRequest, "Invalid plan type. Only weekly, monthly, or lifetime are allowed.")
		case errors.Is(err, domain.ErrInvalidPhoneNumber):
			writeError(w, http.StatusBadRequest, "Invalid phone number. Must be 10 digits.")
		case errors.Is(err, domain.ErrQRRenderFailure):
			writeError(w, http.StatusInternalServerError, "Failed to generate QR code. Please try again.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to generate payment link.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		PaymentSessionID string     `json:"paymentSessionId"`
		UPILink          string     `json:"upiLink"`
		QRCode           string     `json:"qrCode"`
		Message          string     `json:"message"`
		Instructions     []string   `json:"instructions"`
		UPIDetails       upiDetails `json:"upiDetails"`
	}{
		PaymentSessionID: res.SessionID,
		UPILink:          res.UPILink,
		QRCode:           res.QRCode,
		Message:          "Please pay ₹" + res.Pending.Amount + " to " + res.Pending.UPIID,
		Instructions: []string{
			"1. Scan the QR code or click the UPI link",
			"2. Complete the payment using any UPI app (Paytm, PhonePe, Google Pay, etc.)",
			"3. Copy the transaction ID from your payment app",
			`4. Enter the transaction ID below and click "Verify Payment"`,
		},
		UPIDetails: upiDetails{
			UPIID:             res.Pending.UPIID,
			Amount:            res.Pending.Amount,
			PlanType:          string(res.Pending.PlanType),
			Description:       res.Description,
			AlternativeUPIIDs: []string{},
		},
	})
}

type verifyTransactionRequest struct {
	PaymentSessionID string `json:"paymentSessionId"`
	TransactionID    string `json:"transactionId"`
}

func (s *Server) handleVerifyTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentSessionID == "" || req.TransactionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Payment session ID and transaction ID are required",
		})
		return
	}

	sub, err := s.subUC.VerifyTransaction(logging.WithSessID(ctx, req.PaymentSessionID), req.PaymentSessionID, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{
				"success": false,
				"error":   "Payment session not found or expired",
			})
		case errors.Is(err, domain.ErrInvalidTransaction):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "Invalid transaction ID. Please check and try again.",
				"message": "The transaction ID you provided could not be verified. Please ensure you have copied it correctly from your payment app.",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "Verification failed. Please try again.",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success      bool                   `json:"success"`
		Message      string                 `json:"message"`
		Subscription model.SubscriptionView `json:"subscription"`
	}{
		Success:      true,
		Message:      "Welcome to " + s.merchantName + "!",
		Subscription: sub.View(time.Now()),
	})
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "paymentSessionId")

	pending, err := s.paymentUC.SessionStatus(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Payment session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get payment status")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PaymentSessionID string                `json:"paymentSessionId"`
		Status           string                `json:"status"`
		Details          *model.PendingPayment `json:"details"`
	}{
		PaymentSessionID: sessionID,
		Status:           model.PaymentSessionStatusPending,
		Details:          pending,
	})
}

// subscriptionJSON renders either the evaluated view or the no-subscription
// placeholder, so both status endpoints share one shape.
func subscriptionJSON(sub *model.Subscription, now time.Time) any {
	if sub == nil {
		return model.NoSubscription()
	}
	return sub.View(now)
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phoneNumber")

	sub, err := s.subUC.Status(logging.WithPhone(r.Context(), phone), phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get subscription status")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PhoneNumber  string `json:"phoneNumber"`
		Subscription any    `json:"subscription"`
	}{
		PhoneNumber:  phone,
		Subscription: subscriptionJSON(sub, time.Now()),
	})
}

func (s *Server) handleCombinedStatus(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phoneNumber")
	sessionID := chi.URLParam(r, "paymentSessionId")
	ctx := logging.WithSessID(logging.WithPhone(r.Context(), phone), sessionID)

	status, err := s.subUC.Combined(ctx, phone, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get combined status")
		return
	}

	// The combined endpoint never 404s on a missing session; it reports
	// not_found inside the payload so pollers keep a stable shape.
	var paymentSession any
	if status.Pending != nil {
		paymentSession = map[string]any{
			"status":  model.PaymentSessionStatusPending,
			"details": status.Pending,
		}
	} else {
		paymentSession = map[string]any{
			"status": "not_found",
			"error":  "Payment session not found or expired",
		}
	}

	writeJSON(w, http.StatusOK, struct {
		PhoneNumber      string `json:"phoneNumber"`
		PaymentSessionID string `json:"paymentSessionId"`
		Subscription     any    `json:"subscription"`
		PaymentSession   any    `json:"paymentSession"`
	}{
		PhoneNumber:      phone,
		PaymentSessionID: sessionID,
		Subscription:     subscriptionJSON(status.Subscription, time.Now()),
		PaymentSession:   paymentSession,
	})
}

func (s *Server) handleAllSubscriptions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.subUC.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}

	now := time.Now()
	type entry struct {
		PhoneNumber  string                 `json:"phoneNumber"`
		Subscription model.SubscriptionView `json:"subscription"`
	}
	subs := make([]entry, 0, len(entries))
	for _, e := range entries {
		subs = append(subs, entry{PhoneNumber: e.PhoneNumber, Subscription: e.Subscription.View(now)})
	}

	writeJSON(w, http.StatusOK, struct {
		TotalSubscriptions int     `json:"totalSubscriptions"`
		Subscriptions      []entry `json:"subscriptions"`
	}{
		TotalSubscriptions: len(subs),
		Subscriptions:      subs,
	})
}

func (s *Server) handleUsedTransactionIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.subUC.UsedTransactionIDs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transaction ids")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, struct {
		TotalUsedTransactionIDs int      `json:"totalUsedTransactionIds"`
		TransactionIDs          []string `json:"transactionIds"`
	}{
		TotalUsedTransactionIDs: len(ids),
		TransactionIDs:          ids,
	})
}

func (s *Server) handleUPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		CurrentUPIID    string   `json:"currentUpiId"`
		Status          string   `json:"status"`
		SupportedApps   []string `json:"supportedApps"`
		Troubleshooting []string `json:"troubleshooting"`
	}{
		CurrentUPIID: s.registry.Current(),
		Status:       "active",
		SupportedApps: []string{
			"Paytm",
			"PhonePe",
			"Google Pay",
			"BHIM",
			"Amazon Pay",
			"WhatsApp Pay",
		},
		Troubleshooting: []string{
			`If UPI ID shows "not payable", try alternative UPI IDs`,
			"Make sure the UPI ID is registered and active",
			"Try different UPI apps if one doesn't work",
			"Check if the UPI ID format is correct (number@handle)",
		},
	})
}

type changeUPIRequest struct {
	NewUPIID string `json:"newUpiId"`
}

func (s *Server) handleChangeUPI(w http.ResponseWriter, r *http.Request) {
	var req changeUPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid UPI ID format. Must be in format: number@handle")
		return
	}

	if err := s.registry.Set(req.NewUPIID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid UPI ID format. Must be in format: number@handle")
		return
	}

	logging.With(r.Context(), s.log).Info().Str("upi_id", req.NewUPIID).Msg("UPI ID changed")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "UPI ID updated to " + req.NewUPIID,
		"newUpiId": req.NewUPIID,
	})
}

func (s *Server) handleTestUPI(w http.ResponseWriter, r *http.Request) {
	link, qrCode, err := s.paymentUC.TestLink(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate test UPI")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UPIID             string   `json:"upiId"`
		TestLink          string   `json:"testLink"`
		QRCode            string   `json:"qrCode"`
		Message           string   `json:"message"`
		AlternativeUPIIDs []string `json:"alternativeUpiIds"`
		Instructions      []string `json:"instructions"`
	}{
		UPIID:             s.registry.Current(),
		TestLink:          link,
		QRCode:            qrCode,
		Message:           "UPI test QR generated successfully",
		AlternativeUPIIDs: []string{},
		Instructions: []string{
			"1. Scan the QR code to test UPI functionality",
			"2. This will open your default UPI app",
			"3. You can cancel the payment after seeing the UPI interface",
			"4. If one UPI ID doesn't work, try the alternative UPI IDs",
		},
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("💸 UPI Payment API is running."))
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.publicDir, "pricing.html"))
}
