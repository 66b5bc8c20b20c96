package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

// Backend is the slice of the RPC client the adapter needs. *ethclient.Client
// satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client implements ports.ChainClient over a JSON-RPC backend. It holds the
// parsed contract ABIs and the two contract addresses; population methods
// are pure calldata encoding and never touch the backend.
type Client struct {
	backend    Backend
	nftAddr    common.Address
	marketAddr common.Address
	nftABI     abi.ABI
	marketABI  abi.ABI
}

var _ ports.ChainClient = (*Client)(nil)

// NewClient creates a chain client over an existing backend
func NewClient(backend Backend, nftAddr, marketAddr string) (*Client, error) {
	if !common.IsHexAddress(nftAddr) {
		return nil, fmt.Errorf("nft contract: %w", core.ErrInvalidAddress)
	}
	if !common.IsHexAddress(marketAddr) {
		return nil, fmt.Errorf("marketplace contract: %w", core.ErrInvalidAddress)
	}

	nftABI, err := abi.JSON(strings.NewReader(masterNFTABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nft abi: %w", err)
	}
	marketABI, err := abi.JSON(strings.NewReader(marketplaceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse marketplace abi: %w", err)
	}

	return &Client{
		backend:    backend,
		nftAddr:    common.HexToAddress(nftAddr),
		marketAddr: common.HexToAddress(marketAddr),
		nftABI:     nftABI,
		marketABI:  marketABI,
	}, nil
}

// Dial connects to the RPC endpoint and builds a client around it
func Dial(ctx context.Context, rpcURL, nftAddr, marketAddr string) (*Client, error) {
	backend, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %v: %w", rpcURL, err, core.ErrChainUnavailable)
	}
	return NewClient(backend, nftAddr, marketAddr)
}

func chainErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, core.ErrChainUnavailable)
}

func (c *Client) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	res, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, chainErr(method, err)
	}

	out, err := contractABI.Unpack(method, res)
	if err != nil {
		return nil, chainErr(method, err)
	}
	return out, nil
}

// OwnerOf returns the current owner of the token
func (c *Client) OwnerOf(ctx context.Context, tokenID *big.Int) (string, error) {
	out, err := c.call(ctx, c.nftAddr, c.nftABI, "ownerOf", tokenID)
	if err != nil {
		return "", err
	}
	return out[0].(common.Address).Hex(), nil
}

// TokenURI returns the metadata URI of the token
func (c *Client) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	out, err := c.call(ctx, c.nftAddr, c.nftABI, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// BalanceOf returns the number of tokens held by owner
func (c *Client) BalanceOf(ctx context.Context, owner string) (*big.Int, error) {
	out, err := c.call(ctx, c.nftAddr, c.nftABI, "balanceOf", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TokenOfOwnerByIndex returns the owner's token at the given enumeration
// index
func (c *Client) TokenOfOwnerByIndex(ctx context.Context, owner string, index *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, c.nftAddr, c.nftABI, "tokenOfOwnerByIndex", common.HexToAddress(owner), index)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// BidsForAsset returns the active bids for the token, amounts in wei
func (c *Client) BidsForAsset(ctx context.Context, tokenID *big.Int) ([]core.ChainBid, error) {
	out, err := c.call(ctx, c.marketAddr, c.marketABI, "bidsForAsset", tokenID)
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(out[0], new([]struct {
		Bidder common.Address
		Amount *big.Int
	})).(*[]struct {
		Bidder common.Address
		Amount *big.Int
	})

	bids := make([]core.ChainBid, 0, len(raw))
	for _, b := range raw {
		bids = append(bids, core.ChainBid{
			Bidder: b.Bidder.Hex(),
			Amount: b.Amount,
		})
	}
	return bids, nil
}

// LatestBlock returns the current head block number
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, chainErr("blockNumber", err)
	}
	return n, nil
}

// MintEvents returns the decoded AssetMinted logs in [fromBlock, toBlock]
func (c *Client) MintEvents(ctx context.Context, fromBlock, toBlock uint64) ([]core.MintEvent, error) {
	event := c.nftABI.Events["AssetMinted"]

	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.nftAddr},
		Topics:    [][]common.Hash{{event.ID}},
	}

	logs, err := c.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, chainErr("filterLogs", err)
	}

	events := make([]core.MintEvent, 0, len(logs))
	for _, log := range logs {
		if len(log.Topics) != 3 {
			continue
		}

		vals, err := c.nftABI.Unpack("AssetMinted", log.Data)
		if err != nil {
			return nil, chainErr("decode AssetMinted", err)
		}

		events = append(events, core.MintEvent{
			TokenID:     new(big.Int).SetBytes(log.Topics[1].Bytes()),
			Owner:       common.BytesToAddress(log.Topics[2].Bytes()).Hex(),
			TokenURI:    vals[0].(string),
			BlockNumber: log.BlockNumber,
		})
	}
	return events, nil
}

func (c *Client) populate(to common.Address, contractABI abi.ABI, method string, args ...interface{}) (core.UnsignedTx, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return core.UnsignedTx{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return core.UnsignedTx{
		To:   to.Hex(),
		Data: hexutil.Encode(data),
	}, nil
}

// PopulateMint encodes mintAsset(owner, tokenURI)
func (c *Client) PopulateMint(owner, tokenURI string) (core.UnsignedTx, error) {
	if !common.IsHexAddress(owner) {
		return core.UnsignedTx{}, fmt.Errorf("mint owner: %w", core.ErrInvalidAddress)
	}
	return c.populate(c.nftAddr, c.nftABI, "mintAsset", common.HexToAddress(owner), tokenURI)
}

// PopulateApprove encodes approve(marketplace, tokenId) on the NFT contract
func (c *Client) PopulateApprove(tokenID *big.Int) (core.UnsignedTx, error) {
	return c.populate(c.nftAddr, c.nftABI, "approve", c.marketAddr, tokenID)
}

// PopulateList encodes listAsset(tokenId) on the marketplace
func (c *Client) PopulateList(tokenID *big.Int) (core.UnsignedTx, error) {
	return c.populate(c.marketAddr, c.marketABI, "listAsset", tokenID)
}

// PopulateBid encodes makeBid(tokenId); the caller supplies Value
func (c *Client) PopulateBid(tokenID *big.Int) (core.UnsignedTx, error) {
	return c.populate(c.marketAddr, c.marketABI, "makeBid", tokenID)
}

// PopulateAcceptBid encodes acceptBid(tokenId, buyer)
func (c *Client) PopulateAcceptBid(tokenID *big.Int, buyer string) (core.UnsignedTx, error) {
	if !common.IsHexAddress(buyer) {
		return core.UnsignedTx{}, fmt.Errorf("bid buyer: %w", core.ErrInvalidAddress)
	}
	return c.populate(c.marketAddr, c.marketABI, "acceptBid", tokenID, common.HexToAddress(buyer))
}
