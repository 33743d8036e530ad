package qr

import (
	"context"

	"upi-subscription-api/internal/domain/ports/adapter"
)

var _ adapter.QRRenderer = (*NoopRenderer)(nil)

// NoopRenderer returns a fixed data URL; used in tests.
type NoopRenderer struct {
	Err error // returned instead of the data URL when set
}

func NewNoopRenderer() *NoopRenderer { return &NoopRenderer{} }

func (n *NoopRenderer) Render(ctx context.Context, uri string) (string, error) {
	if n.Err != nil {
		return "", n.Err
	}
	return "data:image/png;base64,bm9vcA==", nil
}
