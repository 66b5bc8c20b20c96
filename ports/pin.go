package ports

import (
	"context"
	"io"

	"github.com/brickbyblock/broker/core"
)

// Pinner is the content-addressable storage provider. Failures wrap
// core.ErrStorageUnavailable.
type Pinner interface {
	// PinFile pins the raw bytes and returns their content address.
	PinFile(ctx context.Context, name string, r io.Reader) (string, error)

	// PinJSON pins the JSON encoding of payload and returns its content
	// address.
	PinJSON(ctx context.Context, name string, payload any) (string, error)

	// Pins enumerates the currently pinned objects.
	Pins(ctx context.Context) ([]core.Pin, error)
}
