package ports

import (
	"context"

	"github.com/brickbyblock/broker/core"
)

// CatalogSource produces the full asset catalog. The event-scan and
// pin-enumeration strategies are interchangeable implementations; a
// deployment picks one via configuration.
type CatalogSource interface {
	Assets(ctx context.Context) ([]core.Asset, error)
}
