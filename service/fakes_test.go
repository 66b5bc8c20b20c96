package service

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/brickbyblock/broker/core"
)

// fakeChain serves canned contract state and records what was asked of it.
type fakeChain struct {
	head    uint64
	events  []core.MintEvent
	ranges  [][2]uint64
	owners  map[string]string
	uris    map[string]string
	balance map[string]int64
	tokens  map[string][]int64
	bids    []core.ChainBid

	mintOwner   string
	mintURI     string
	acceptBuyer string
}

func (f *fakeChain) OwnerOf(ctx context.Context, tokenID *big.Int) (string, error) {
	owner, ok := f.owners[tokenID.String()]
	if !ok {
		return "", fmt.Errorf("token %s: %w", tokenID, core.ErrChainUnavailable)
	}
	return owner, nil
}

func (f *fakeChain) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	uri, ok := f.uris[tokenID.String()]
	if !ok {
		return "", fmt.Errorf("token %s: %w", tokenID, core.ErrChainUnavailable)
	}
	return uri, nil
}

func (f *fakeChain) BalanceOf(ctx context.Context, owner string) (*big.Int, error) {
	return big.NewInt(f.balance[owner]), nil
}

func (f *fakeChain) TokenOfOwnerByIndex(ctx context.Context, owner string, index *big.Int) (*big.Int, error) {
	ids := f.tokens[owner]
	i := index.Int64()
	if i < 0 || i >= int64(len(ids)) {
		return nil, fmt.Errorf("index %d out of range: %w", i, core.ErrChainUnavailable)
	}
	return big.NewInt(ids[i]), nil
}

func (f *fakeChain) BidsForAsset(ctx context.Context, tokenID *big.Int) ([]core.ChainBid, error) {
	return f.bids, nil
}

func (f *fakeChain) LatestBlock(ctx context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeChain) MintEvents(ctx context.Context, fromBlock, toBlock uint64) ([]core.MintEvent, error) {
	f.ranges = append(f.ranges, [2]uint64{fromBlock, toBlock})

	var out []core.MintEvent
	for _, ev := range f.events {
		if ev.BlockNumber >= fromBlock && ev.BlockNumber <= toBlock {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeChain) PopulateMint(owner, tokenURI string) (core.UnsignedTx, error) {
	f.mintOwner = owner
	f.mintURI = tokenURI
	return core.UnsignedTx{To: "0xnft", Data: "0x6d696e74"}, nil
}

func (f *fakeChain) PopulateApprove(tokenID *big.Int) (core.UnsignedTx, error) {
	return core.UnsignedTx{To: "0xnft", Data: "0x617070"}, nil
}

func (f *fakeChain) PopulateList(tokenID *big.Int) (core.UnsignedTx, error) {
	return core.UnsignedTx{To: "0xmarket", Data: "0x6c697374"}, nil
}

func (f *fakeChain) PopulateBid(tokenID *big.Int) (core.UnsignedTx, error) {
	return core.UnsignedTx{To: "0xmarket", Data: "0x626964"}, nil
}

func (f *fakeChain) PopulateAcceptBid(tokenID *big.Int, buyer string) (core.UnsignedTx, error) {
	f.acceptBuyer = buyer
	return core.UnsignedTx{To: "0xmarket", Data: "0x616363657074"}, nil
}

// fakeResolver resolves from a fixed uri to document map; anything else is
// unavailable.
type fakeResolver struct {
	docs map[string]*core.Metadata
}

func (f *fakeResolver) Resolve(ctx context.Context, uri string) (*core.Metadata, error) {
	md, ok := f.docs[uri]
	if !ok {
		return nil, fmt.Errorf("no document at %s: %w", uri, core.ErrMetadataUnavailable)
	}
	return md, nil
}

type fakePinner struct {
	pins     []core.Pin
	imageCID string
	metaCID  string

	fileNames    []string
	jsonNames    []string
	jsonPayloads []any
}

func (f *fakePinner) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	f.fileNames = append(f.fileNames, name)
	return f.imageCID, nil
}

func (f *fakePinner) PinJSON(ctx context.Context, name string, payload any) (string, error) {
	f.jsonNames = append(f.jsonNames, name)
	f.jsonPayloads = append(f.jsonPayloads, payload)
	return f.metaCID, nil
}

func (f *fakePinner) Pins(ctx context.Context) ([]core.Pin, error) {
	return f.pins, nil
}

type fakePublisher struct {
	logins []string
	err    error
}

func (f *fakePublisher) PublishLogin(ctx context.Context, address, tokenID string) error {
	if f.err != nil {
		return f.err
	}
	f.logins = append(f.logins, address)
	return nil
}
