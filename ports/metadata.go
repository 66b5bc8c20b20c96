package ports

import (
	"context"

	"github.com/brickbyblock/broker/core"
)

// MetadataResolver resolves a content-address locator to its metadata
// document, with embedded content-address references rewritten to fetchable
// URLs. Failures wrap core.ErrMetadataUnavailable.
type MetadataResolver interface {
	Resolve(ctx context.Context, uri string) (*core.Metadata, error)
}
