package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

const (
	// DefaultChunkSize bounds each log query to stay inside typical RPC
	// provider block-range limits.
	DefaultChunkSize = 2048

	// DefaultFanout caps concurrent metadata fetches per catalog build so
	// the gateway is not overwhelmed.
	DefaultFanout = 8

	// MetadataNamePrefix is the pin display-name convention that marks a
	// pinned object as asset metadata.
	MetadataNamePrefix = "Metadata_"
)

// resolveAll fetches metadata for each (uri, builder) pair with bounded
// concurrency. Assets whose metadata cannot be resolved are dropped from the
// result, not failed: a single broken document must not take down the whole
// catalog.
func resolveAll(ctx context.Context, resolver ports.MetadataResolver, fanout int, uris []string, build func(i int, md *core.Metadata) core.Asset) []core.Asset {
	results := make([]*core.Asset, len(uris))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanout)
	for i, uri := range uris {
		i, uri := i, uri
		g.Go(func() error {
			md, err := resolver.Resolve(ctx, uri)
			if err != nil {
				slog.Warn("dropping asset with unresolvable metadata", "uri", uri, "error", err)
				return nil
			}
			asset := build(i, md)
			results[i] = &asset
			return nil
		})
	}
	// Goroutines never return errors; drops are logged above.
	_ = g.Wait()

	assets := make([]core.Asset, 0, len(results))
	for _, a := range results {
		if a != nil {
			assets = append(assets, *a)
		}
	}
	return assets
}

// ChainCatalog builds the catalog from on-chain mint events. Ownership and
// token ids come from the chain; only display metadata comes from the
// content store.
type ChainCatalog struct {
	chain     ports.ChainClient
	resolver  ports.MetadataResolver
	chunkSize uint64
	fanout    int
}

var _ ports.CatalogSource = (*ChainCatalog)(nil)

// NewChainCatalog creates an event-scan catalog source. chunkSize and fanout
// fall back to defaults when zero.
func NewChainCatalog(chain ports.ChainClient, resolver ports.MetadataResolver, chunkSize uint64, fanout int) *ChainCatalog {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if fanout <= 0 {
		fanout = DefaultFanout
	}
	return &ChainCatalog{
		chain:     chain,
		resolver:  resolver,
		chunkSize: chunkSize,
		fanout:    fanout,
	}
}

// Assets scans the full mint-event history in fixed block windows and
// returns the catalog newest-first
func (c *ChainCatalog) Assets(ctx context.Context) ([]core.Asset, error) {
	latest, err := c.chain.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	// Windows partition [0, latest]: contiguous, inclusive, no overlap.
	var events []core.MintEvent
	for from := uint64(0); ; from += c.chunkSize {
		to := from + c.chunkSize - 1
		if to > latest {
			to = latest
		}

		chunk, err := c.chain.MintEvents(ctx, from, to)
		if err != nil {
			return nil, err
		}
		events = append(events, chunk...)

		if to == latest {
			break
		}
	}

	uris := make([]string, len(events))
	for i, ev := range events {
		uris[i] = ev.TokenURI
	}

	assets := resolveAll(ctx, c.resolver, c.fanout, uris, func(i int, md *core.Metadata) core.Asset {
		ev := events[i]
		return core.Asset{
			TokenID:     ev.TokenID.String(),
			Owner:       ev.Owner,
			Name:        md.Name,
			Description: md.Description,
			Image:       md.Image,
			Price:       md.Price,
			TokenURI:    ev.TokenURI,
		}
	})

	reverse(assets)
	return assets, nil
}

// PinCatalog builds the catalog by enumerating pinned metadata objects.
// Owner and price come from the metadata documents themselves, a weaker
// provenance guarantee than the event scan; it exists for deployments where
// log queries are unavailable or too costly.
type PinCatalog struct {
	pins     ports.Pinner
	resolver ports.MetadataResolver
	fanout   int
}

var _ ports.CatalogSource = (*PinCatalog)(nil)

// NewPinCatalog creates a pin-enumeration catalog source
func NewPinCatalog(pins ports.Pinner, resolver ports.MetadataResolver, fanout int) *PinCatalog {
	if fanout <= 0 {
		fanout = DefaultFanout
	}
	return &PinCatalog{
		pins:     pins,
		resolver: resolver,
		fanout:   fanout,
	}
}

// Assets enumerates pinned metadata documents, in the order the provider
// reports them (most recent first)
func (c *PinCatalog) Assets(ctx context.Context) ([]core.Asset, error) {
	pins, err := c.pins.Pins(ctx)
	if err != nil {
		return nil, err
	}

	var metadataPins []core.Pin
	for _, p := range pins {
		if strings.HasPrefix(p.Name, MetadataNamePrefix) {
			metadataPins = append(metadataPins, p)
		}
	}

	uris := make([]string, len(metadataPins))
	for i, p := range metadataPins {
		uris[i] = "ipfs://" + p.CID
	}

	return resolveAll(ctx, c.resolver, c.fanout, uris, func(i int, md *core.Metadata) core.Asset {
		return core.Asset{
			TokenID:     metadataPins[i].CID,
			Owner:       md.Owner,
			Name:        md.Name,
			Description: md.Description,
			Image:       md.Image,
			Price:       md.Price,
			TokenURI:    uris[i],
		}
	}), nil
}

// CatalogService answers all catalog queries: the full listing via the
// configured source, plus per-asset, bid, and portfolio lookups that always
// go straight to the chain.
type CatalogService struct {
	source   ports.CatalogSource
	chain    ports.ChainClient
	resolver ports.MetadataResolver
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source ports.CatalogSource, chain ports.ChainClient, resolver ports.MetadataResolver) *CatalogService {
	return &CatalogService{
		source:   source,
		chain:    chain,
		resolver: resolver,
	}
}

// ListAssets returns the full catalog from the configured source
func (s *CatalogService) ListAssets(ctx context.Context) ([]core.Asset, error) {
	return s.source.Assets(ctx)
}

// GetAsset returns a single asset by direct lookup, no scan
func (s *CatalogService) GetAsset(ctx context.Context, tokenID string) (*core.Asset, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}

	owner, err := s.chain.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	uri, err := s.chain.TokenURI(ctx, id)
	if err != nil {
		return nil, err
	}

	md, err := s.resolver.Resolve(ctx, uri)
	if err != nil {
		return nil, err
	}

	return &core.Asset{
		TokenID:     tokenID,
		Owner:       owner,
		Name:        md.Name,
		Description: md.Description,
		Image:       md.Image,
		Price:       md.Price,
		TokenURI:    uri,
	}, nil
}

// GetBids returns the active bids for an asset, amounts converted from wei
// to decimal ether strings
func (s *CatalogService) GetBids(ctx context.Context, tokenID string) ([]core.Bid, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}

	chainBids, err := s.chain.BidsForAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	bids := make([]core.Bid, 0, len(chainBids))
	for _, b := range chainBids {
		bids = append(bids, core.Bid{
			Bidder: b.Bidder,
			Amount: decimal.NewFromBigInt(b.Amount, -18).String(),
		})
	}
	return bids, nil
}

// GetOwned returns the assets currently owned by address, newest-first.
// One round-trip per token: portfolio scale, not bulk-catalog scale.
func (s *CatalogService) GetOwned(ctx context.Context, address string) ([]core.Asset, error) {
	balance, err := s.chain.BalanceOf(ctx, address)
	if err != nil {
		return nil, err
	}

	assets := make([]core.Asset, 0, balance.Int64())
	for i := int64(0); i < balance.Int64(); i++ {
		id, err := s.chain.TokenOfOwnerByIndex(ctx, address, big.NewInt(i))
		if err != nil {
			return nil, err
		}
		uri, err := s.chain.TokenURI(ctx, id)
		if err != nil {
			return nil, err
		}

		md, err := s.resolver.Resolve(ctx, uri)
		if err != nil {
			slog.Warn("dropping owned asset with unresolvable metadata", "tokenId", id, "error", err)
			continue
		}

		assets = append(assets, core.Asset{
			TokenID:     id.String(),
			Owner:       address,
			Name:        md.Name,
			Description: md.Description,
			Image:       md.Image,
			Price:       md.Price,
			TokenURI:    uri,
		})
	}

	reverse(assets)
	return assets, nil
}

func parseTokenID(tokenID string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("token id %q: %w", tokenID, core.ErrInvalidInput)
	}
	return id, nil
}

func reverse(assets []core.Asset) {
	for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
		assets[i], assets[j] = assets[j], assets[i]
	}
}
