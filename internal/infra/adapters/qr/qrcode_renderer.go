// File: internal/infra/adapters/qr/qrcode_renderer.go
package qr

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"upi-subscription-api/internal/domain"
	"upi-subscription-api/internal/domain/ports/adapter"
	"upi-subscription-api/internal/infra/metrics"
)

var _ adapter.QRRenderer = (*Renderer)(nil)

// Renderer encodes URIs as PNG data URLs. High error correction so the code
// stays scannable on small phone screens.
type Renderer struct {
	size int
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 300
	}
	return &Renderer{size: size}
}

func (r *Renderer) Render(ctx context.Context, uri string) (string, error) {
	start := time.Now()
	png, err := qrcode.Encode(uri, qrcode.High, r.size)
	metrics.ObserveQRRender(time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrQRRenderFailure, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
