package adapter

import "context"

// QRRenderer is the hex port for QR encoding. Implementations return a
// data URL (data:image/png;base64,...) ready to embed in a JSON response.
type QRRenderer interface {
	Render(ctx context.Context, uri string) (string, error)
}
