package ports

import (
	"context"
	"math/big"

	"github.com/brickbyblock/broker/core"
)

// ChainClient exposes the read-only contract surface plus unsigned
// transaction population. It has no signing capability. All RPC failures
// wrap core.ErrChainUnavailable.
type ChainClient interface {
	OwnerOf(ctx context.Context, tokenID *big.Int) (string, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	BalanceOf(ctx context.Context, owner string) (*big.Int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner string, index *big.Int) (*big.Int, error)
	BidsForAsset(ctx context.Context, tokenID *big.Int) ([]core.ChainBid, error)
	LatestBlock(ctx context.Context) (uint64, error)

	// MintEvents returns the AssetMinted logs in [fromBlock, toBlock],
	// both bounds inclusive, in chain order.
	MintEvents(ctx context.Context, fromBlock, toBlock uint64) ([]core.MintEvent, error)

	// Population encodes calldata only; From and Value are the caller's to
	// fill in where applicable.
	PopulateMint(owner, tokenURI string) (core.UnsignedTx, error)
	PopulateApprove(tokenID *big.Int) (core.UnsignedTx, error)
	PopulateList(tokenID *big.Int) (core.UnsignedTx, error)
	PopulateBid(tokenID *big.Int) (core.UnsignedTx, error)
	PopulateAcceptBid(tokenID *big.Int, buyer string) (core.UnsignedTx, error)
}
