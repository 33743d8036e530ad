// File: internal/infra/web/handlers_test.go
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	qrAdapter "upi-subscription-api/internal/infra/adapters/qr"
	"upi-subscription-api/internal/infra/adapters/verification"
	"upi-subscription-api/internal/infra/memory"
	"upi-subscription-api/internal/ident"
	"upi-subscription-api/internal/upi"
	"upi-subscription-api/internal/usecase"
)

func newTestServer(t *testing.T, renderer *qrAdapter.NoopRenderer) http.Handler {
	t.Helper()
	logger := zerolog.Nop()

	sessions := memory.NewPaymentSessionRepo()
	subs := memory.NewSubscriptionRepo()
	ledger := memory.NewTransactionLedger()
	ids := ident.NewGenerator()
	registry := upi.NewRegistry("9462153613@axl")
	verifier := verification.NewStubVerifier(ledger, 0, &logger)

	paymentUC := usecase.NewPaymentUseCase(sessions, ids, renderer, registry, "Fiturai", &logger)
	subUC := usecase.NewSubscriptionUseCase(sessions, subs, ledger, verifier, ids, &logger)

	srv := NewServer(paymentUC, subUC, registry, nil, 0, "Fiturai", t.TempDir(), &logger)
	return srv.Router()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (body %q)", path, err, rec.Body.String())
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode: %v (body %q)", err, rec.Body.String())
	}
}

// generateSession drives POST /generate-upi and returns the session id.
func generateSession(t *testing.T, h http.Handler, phone string) string {
	t.Helper()
	rec := postJSON(t, h, "/generate-upi", map[string]string{
		"name": "Asha", "amount": "149", "planType": "monthly", "phoneNumber": phone,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate-upi = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		PaymentSessionID string `json:"paymentSessionId"`
	}
	decode(t, rec, &resp)
	return resp.PaymentSessionID
}

func TestGenerateUPIAndPaymentStatus(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	rec := postJSON(t, h, "/generate-upi", map[string]string{
		"name": "Asha", "amount": "149", "planType": "monthly", "phoneNumber": "9876543210",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		PaymentSessionID string   `json:"paymentSessionId"`
		UPILink          string   `json:"upiLink"`
		QRCode           string   `json:"qrCode"`
		Message          string   `json:"message"`
		Instructions     []string `json:"instructions"`
		UPIDetails       struct {
			UPIID             string   `json:"upiId"`
			Amount            string   `json:"amount"`
			AlternativeUPIIDs []string `json:"alternativeUpiIds"`
		} `json:"upiDetails"`
	}
	decode(t, rec, &resp)

	if !strings.HasPrefix(resp.PaymentSessionID, "PAY") {
		t.Errorf("session id = %q", resp.PaymentSessionID)
	}
	if !strings.HasPrefix(resp.UPILink, "upi://pay?") || !strings.Contains(resp.UPILink, "am=149") {
		t.Errorf("upi link = %q", resp.UPILink)
	}
	if !strings.HasPrefix(resp.QRCode, "data:image/png;base64,") {
		t.Errorf("qr code = %q", resp.QRCode)
	}
	if resp.Message != "Please pay ₹149 to 9462153613@axl" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Instructions) != 4 {
		t.Errorf("instructions = %d lines", len(resp.Instructions))
	}
	if resp.UPIDetails.AlternativeUPIIDs == nil {
		t.Error("alternativeUpiIds is null, want []")
	}

	var status struct {
		PaymentSessionID string `json:"paymentSessionId"`
		Status           string `json:"status"`
		Details          struct {
			PhoneNumber string `json:"phoneNumber"`
		} `json:"details"`
	}
	rec2 := getJSON(t, h, "/payment-status/"+resp.PaymentSessionID, &status)
	if rec2.Code != http.StatusOK {
		t.Fatalf("payment-status = %d", rec2.Code)
	}
	if status.Status != "pending" || status.Details.PhoneNumber != "9876543210" {
		t.Errorf("status = %+v", status)
	}
}

func TestGenerateUPIValidation(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{
			name: "missing fields",
			body: map[string]string{"name": "Asha"},
			want: "Name, amount, planType, and phoneNumber are required",
		},
		{
			name: "bad amount",
			body: map[string]string{"name": "Asha", "amount": "99", "planType": "monthly", "phoneNumber": "9876543210"},
			want: "Invalid amount. Only ₹49/week, ₹149/month, or ₹499/lifetime are allowed.",
		},
		{
			name: "bad plan",
			body: map[string]string{"name": "Asha", "amount": "149", "planType": "daily", "phoneNumber": "9876543210"},
			want: "Invalid plan type. Only weekly, monthly, or lifetime are allowed.",
		},
		{
			name: "bad phone",
			body: map[string]string{"name": "Asha", "amount": "149", "planType": "monthly", "phoneNumber": "12345"},
			want: "Invalid phone number. Must be 10 digits.",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := postJSON(t, h, "/generate-upi", c.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			decode(t, rec, &resp)
			if resp.Error != c.want {
				t.Errorf("error = %q, want %q", resp.Error, c.want)
			}
		})
	}
}

func TestGenerateUPIQRFailure(t *testing.T) {
	renderer := qrAdapter.NewNoopRenderer()
	renderer.Err = errors.New("encoder broken")
	h := newTestServer(t, renderer)

	rec := postJSON(t, h, "/generate-upi", map[string]string{
		"name": "Asha", "amount": "149", "planType": "monthly", "phoneNumber": "9876543210",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyTransactionFlow(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	sessionID := generateSession(t, h, "9876543210")

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(t, h, "/verify-transaction", map[string]string{"paymentSessionId": sessionID})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("short transaction id", func(t *testing.T) {
		rec := postJSON(t, h, "/verify-transaction", map[string]string{
			"paymentSessionId": sessionID, "transactionId": "SHORT",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		decode(t, rec, &resp)
		if resp.Success || resp.Error != "Invalid transaction ID. Please check and try again." {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := postJSON(t, h, "/verify-transaction", map[string]string{
			"paymentSessionId": "PAYnope", "transactionId": "TXN12345678",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, h, "/verify-transaction", map[string]string{
			"paymentSessionId": sessionID, "transactionId": "TXN12345678",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Success      bool   `json:"success"`
			Message      string `json:"message"`
			Subscription struct {
				SubscriptionID string `json:"subscriptionId"`
				IsActive       bool   `json:"isActive"`
				Status         string `json:"status"`
			} `json:"subscription"`
		}
		decode(t, rec, &resp)
		if !resp.Success || resp.Message != "Welcome to Fiturai!" {
			t.Errorf("resp = %+v", resp)
		}
		if !strings.HasPrefix(resp.Subscription.SubscriptionID, "SUB") ||
			!resp.Subscription.IsActive || resp.Subscription.Status != "active" {
			t.Errorf("subscription = %+v", resp.Subscription)
		}
	})

	t.Run("session consumed", func(t *testing.T) {
		rec := postJSON(t, h, "/verify-transaction", map[string]string{
			"paymentSessionId": sessionID, "transactionId": "TXN87654321",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestVerifyTransactionReplay(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	first := generateSession(t, h, "9876543210")
	second := generateSession(t, h, "9123456780")

	rec := postJSON(t, h, "/verify-transaction", map[string]string{
		"paymentSessionId": first, "transactionId": "TXN12345678",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("first verify = %d", rec.Code)
	}

	rec = postJSON(t, h, "/verify-transaction", map[string]string{
		"paymentSessionId": second, "transactionId": "TXN12345678",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replay = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSubscriptionStatusNoSubscription(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	var resp struct {
		PhoneNumber  string `json:"phoneNumber"`
		Subscription struct {
			IsActive bool   `json:"isActive"`
			Status   string `json:"status"`
		} `json:"subscription"`
	}
	rec := getJSON(t, h, "/subscription-status/9876543210", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.PhoneNumber != "9876543210" || resp.Subscription.IsActive || resp.Subscription.Status != "no_subscription" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCombinedStatusAutoActivates(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	sessionID := generateSession(t, h, "9876543210")

	var resp struct {
		Subscription struct {
			IsActive      bool   `json:"isActive"`
			TransactionID string `json:"transactionId"`
		} `json:"subscription"`
		PaymentSession struct {
			Status string `json:"status"`
		} `json:"paymentSession"`
	}
	rec := getJSON(t, h, "/subscription-status/9876543210/"+sessionID, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Subscription.IsActive {
		t.Error("subscription not active after auto-activation")
	}
	if !strings.HasPrefix(resp.Subscription.TransactionID, "AUTO_ACTIVATED_") {
		t.Errorf("transaction id = %q", resp.Subscription.TransactionID)
	}
	// The session was consumed by this very call.
	if resp.PaymentSession.Status != "not_found" {
		t.Errorf("paymentSession.status = %q, want not_found", resp.PaymentSession.Status)
	}

	// The minted auto id shows up in the ledger listing.
	var used struct {
		TotalUsedTransactionIDs int      `json:"totalUsedTransactionIds"`
		TransactionIDs          []string `json:"transactionIds"`
	}
	getJSON(t, h, "/used-transaction-ids", &used)
	if used.TotalUsedTransactionIDs != 1 || !strings.HasPrefix(used.TransactionIDs[0], "AUTO_ACTIVATED_") {
		t.Errorf("used ids = %+v", used)
	}
}

func TestUsedTransactionIDsEmpty(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	rec := getJSON(t, h, "/used-transaction-ids", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "null") {
		t.Errorf("body renders null: %s", rec.Body.String())
	}
}

func TestAllSubscriptions(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	sessionID := generateSession(t, h, "9876543210")
	rec := postJSON(t, h, "/verify-transaction", map[string]string{
		"paymentSessionId": sessionID, "transactionId": "TXN12345678",
	})
	if rec.Code != http.StatusOK {
		t.Fatal("verify failed")
	}

	var resp struct {
		TotalSubscriptions int `json:"totalSubscriptions"`
		Subscriptions      []struct {
			PhoneNumber string `json:"phoneNumber"`
		} `json:"subscriptions"`
	}
	getJSON(t, h, "/all-subscriptions", &resp)
	if resp.TotalSubscriptions != 1 || resp.Subscriptions[0].PhoneNumber != "9876543210" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChangeUPI(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	t.Run("rejects handle without at sign", func(t *testing.T) {
		rec := postJSON(t, h, "/change-upi", map[string]string{"newUpiId": "not-a-upi-id"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("accepts and takes effect", func(t *testing.T) {
		rec := postJSON(t, h, "/change-upi", map[string]string{"newUpiId": "merchant@okhdfc"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Success  bool   `json:"success"`
			NewUPIID string `json:"newUpiId"`
		}
		decode(t, rec, &resp)
		if !resp.Success || resp.NewUPIID != "merchant@okhdfc" {
			t.Errorf("resp = %+v", resp)
		}

		var status struct {
			CurrentUPIID string `json:"currentUpiId"`
		}
		getJSON(t, h, "/upi-status", &status)
		if status.CurrentUPIID != "merchant@okhdfc" {
			t.Errorf("currentUpiId = %q", status.CurrentUPIID)
		}

		// New sessions pick up the changed payee.
		rec = postJSON(t, h, "/generate-upi", map[string]string{
			"name": "Asha", "amount": "49", "planType": "weekly", "phoneNumber": "9000000001",
		})
		if !strings.Contains(rec.Body.String(), "merchant@okhdfc") {
			t.Error("generated link does not use the new payee")
		}
	})
}

func TestUPIStatusShape(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	var resp struct {
		CurrentUPIID    string   `json:"currentUpiId"`
		Status          string   `json:"status"`
		SupportedApps   []string `json:"supportedApps"`
		Troubleshooting []string `json:"troubleshooting"`
	}
	rec := getJSON(t, h, "/upi-status", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.CurrentUPIID != "9462153613@axl" || resp.Status != "active" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.SupportedApps) == 0 || len(resp.Troubleshooting) == 0 {
		t.Error("supportedApps/troubleshooting missing")
	}
}

func TestTestUPI(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	var resp struct {
		UPIID    string `json:"upiId"`
		TestLink string `json:"testLink"`
		QRCode   string `json:"qrCode"`
	}
	rec := getJSON(t, h, "/test-upi", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.UPIID != "9462153613@axl" {
		t.Errorf("upiId = %q", resp.UPIID)
	}
	if !strings.HasPrefix(resp.TestLink, "upi://pay?") || !strings.Contains(resp.TestLink, "am=1") {
		t.Errorf("testLink = %q", resp.TestLink)
	}
	if !strings.HasPrefix(resp.QRCode, "data:image/png;base64,") {
		t.Errorf("qrCode = %q", resp.QRCode)
	}
}

func TestRootBanner(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	rec := getJSON(t, h, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "UPI Payment API is running") {
		t.Errorf("root = %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())

	req := httptest.NewRequest(http.MethodOptions, "/generate-upi", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %q", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, qrAdapter.NewNoopRenderer())
	rec := getJSON(t, h, "/health", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}
