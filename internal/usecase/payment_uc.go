// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"upi-subscription-api/internal/domain"
	"upi-subscription-api/internal/domain/model"
	"upi-subscription-api/internal/domain/ports/adapter"
	"upi-subscription-api/internal/domain/ports/repository"
	"upi-subscription-api/internal/ident"
	"upi-subscription-api/internal/infra/logging"
	"upi-subscription-api/internal/infra/metrics"
	"upi-subscription-api/internal/upi"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// GenerateLinkRequest carries the raw, unvalidated client fields.
type GenerateLinkRequest struct {
	Name        string
	Amount      string
	PlanType    string
	PhoneNumber string
}

// GenerateLinkResult is everything the transport layer needs to answer a
// successful link generation.
type GenerateLinkResult struct {
	SessionID   string
	UPILink     string
	QRCode      string
	Description string
	Pending     *model.PendingPayment
}

type PaymentUseCase interface {
	// GenerateLink validates the request, builds the UPI deep link, renders
	// the QR, and stores a pending payment session.
	GenerateLink(ctx context.Context, req GenerateLinkRequest) (*GenerateLinkResult, error)
	// SessionStatus returns the pending payment for a session id.
	SessionStatus(ctx context.Context, sessionID string) (*model.PendingPayment, error)
	// TestLink builds a one-rupee link and QR against the current payee
	// handle, for checking that the handle is payable.
	TestLink(ctx context.Context) (link, qrCode string, err error)
}

type paymentUC struct {
	sessions     repository.PaymentSessionRepository
	ids          *ident.Generator
	qr           adapter.QRRenderer
	registry     *upi.Registry
	merchantName string
	log          *zerolog.Logger
}

func NewPaymentUseCase(
	sessions repository.PaymentSessionRepository,
	ids *ident.Generator,
	qr adapter.QRRenderer,
	registry *upi.Registry,
	merchantName string,
	logger *zerolog.Logger,
) *paymentUC {
	l := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		sessions:     sessions,
		ids:          ids,
		qr:           qr,
		registry:     registry,
		merchantName: merchantName,
		log:          &l,
	}
}

func (u *paymentUC) GenerateLink(ctx context.Context, req GenerateLinkRequest) (*GenerateLinkResult, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.GenerateLink")()

	now := time.Now()
	payee := u.registry.Current()

	pending, err := model.NewPendingPayment(req.Name, req.Amount, req.PlanType, req.PhoneNumber, payee, now)
	if err != nil {
		return nil, err
	}

	note := u.merchantName + " ₹" + pending.Amount
	link := upi.BuildLink(payee, pending.Name, pending.Amount, note, now)

	// Render before storing: a session whose QR never existed would be
	// unclaimable dead weight in the store.
	qrCode, err := u.qr.Render(ctx, link)
	if err != nil {
		u.log.Error().Err(err).Msg("QR generation failed")
		return nil, err
	}

	sessionID := u.ids.NewSessionID()
	if err := u.sessions.Put(ctx, sessionID, pending); err != nil {
		return nil, err
	}

	metrics.IncSessionCreated(string(pending.PlanType))
	u.log.Info().
		Str("session_id", sessionID).
		Str("amount", pending.Amount).
		Str("plan", string(pending.PlanType)).
		Str("upi_id", payee).
		Msg("payment generated")

	return &GenerateLinkResult{
		SessionID:   sessionID,
		UPILink:     link,
		QRCode:      qrCode,
		Description: note,
		Pending:     pending,
	}, nil
}

func (u *paymentUC) SessionStatus(ctx context.Context, sessionID string) (*model.PendingPayment, error) {
	pending, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, domain.ErrSessionNotFound
	}
	return pending, nil
}

func (u *paymentUC) TestLink(ctx context.Context) (string, string, error) {
	link := upi.BuildLink(u.registry.Current(), "Test", "1", "Test Payment", time.Now())
	qrCode, err := u.qr.Render(ctx, link)
	if err != nil {
		u.log.Error().Err(err).Msg("test QR generation failed")
		return "", "", err
	}
	return link, qrCode, nil
}
