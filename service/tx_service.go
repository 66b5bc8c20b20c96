package service

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

// MintParams carries the user-supplied fields of a mint request. All fields
// are required.
type MintParams struct {
	Name        string
	Description string
	Price       string
	Image       io.Reader
}

// TxService builds the unsigned transactions for the mutating marketplace
// actions. It builds exactly what each action needs, never signs, and never
// retains a transaction after returning it. Ownership checks are left to
// the contracts.
type TxService struct {
	chain ports.ChainClient
	pins  ports.Pinner
}

// NewTxService creates a new transaction builder
func NewTxService(chain ports.ChainClient, pins ports.Pinner) *TxService {
	return &TxService{
		chain: chain,
		pins:  pins,
	}
}

// Mint pins the image, pins the metadata document referencing it, and
// returns the unsigned mint transaction. owner comes from the authenticated
// session, never from the request body.
func (s *TxService) Mint(ctx context.Context, owner string, p MintParams) (core.UnsignedTx, error) {
	if p.Name == "" || p.Description == "" || p.Price == "" || p.Image == nil {
		return core.UnsignedTx{}, fmt.Errorf("name, description, price and file are required: %w", core.ErrInvalidInput)
	}
	if _, err := decimal.NewFromString(p.Price); err != nil {
		return core.UnsignedTx{}, fmt.Errorf("price %q: %w", p.Price, core.ErrInvalidInput)
	}

	imageCID, err := s.pins.PinFile(ctx, "Asset_"+p.Name, p.Image)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	meta := core.Metadata{
		Name:        p.Name,
		Description: p.Description,
		Image:       "ipfs://" + imageCID,
		Price:       p.Price,
		Owner:       owner,
	}
	metaCID, err := s.pins.PinJSON(ctx, MetadataNamePrefix+p.Name, meta)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	return s.chain.PopulateMint(owner, "ipfs://"+metaCID)
}

// List returns the approve and list transactions for putting an asset on
// sale. Both carry the seller as From; the client is responsible for
// broadcasting approve before list.
func (s *TxService) List(ctx context.Context, seller, tokenID string) (approve, list core.UnsignedTx, err error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return core.UnsignedTx{}, core.UnsignedTx{}, err
	}

	approve, err = s.chain.PopulateApprove(id)
	if err != nil {
		return core.UnsignedTx{}, core.UnsignedTx{}, err
	}
	approve.From = seller

	list, err = s.chain.PopulateList(id)
	if err != nil {
		return core.UnsignedTx{}, core.UnsignedTx{}, err
	}
	list.From = seller

	return approve, list, nil
}

// Bid returns the unsigned bid transaction with Value set to the amount
// converted from decimal ether to wei
func (s *TxService) Bid(ctx context.Context, bidder, tokenID, amount string) (core.UnsignedTx, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	wei, err := etherToWei(amount)
	if err != nil {
		return core.UnsignedTx{}, err
	}

	tx, err := s.chain.PopulateBid(id)
	if err != nil {
		return core.UnsignedTx{}, err
	}
	tx.From = bidder
	tx.Value = hexutil.EncodeBig(wei)

	return tx, nil
}

// AcceptBid returns the unsigned accept transaction. The caller must be the
// current owner; that is enforced by the contract, not here.
func (s *TxService) AcceptBid(ctx context.Context, seller, tokenID, buyer string) (core.UnsignedTx, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return core.UnsignedTx{}, err
	}
	if !common.IsHexAddress(buyer) {
		return core.UnsignedTx{}, fmt.Errorf("buyer address: %w", core.ErrInvalidInput)
	}

	tx, err := s.chain.PopulateAcceptBid(id, buyer)
	if err != nil {
		return core.UnsignedTx{}, err
	}
	tx.From = seller

	return tx, nil
}

// etherToWei converts a decimal ether amount to wei. Amounts with sub-wei
// precision or a non-positive value are rejected.
func etherToWei(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", amount, core.ErrInvalidInput)
	}

	shifted := d.Shift(18)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %q has sub-wei precision: %w", amount, core.ErrInvalidInput)
	}

	wei := shifted.BigInt()
	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("amount %q must be positive: %w", amount, core.ErrInvalidInput)
	}
	return wei, nil
}
