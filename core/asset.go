package core

import "math/big"

// Asset is a catalog record for one marketplace asset. TokenID and Owner are
// chain-derived when the record comes from the event scan; the metadata
// fields come from the content-addressable store and are untrusted display
// data.
type Asset struct {
	TokenID     string `json:"tokenId"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       string `json:"price,omitempty"`
	TokenURI    string `json:"contentAddress,omitempty"`
}

// Metadata is the JSON document pinned alongside each asset.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       string `json:"price,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// MintEvent is one decoded AssetMinted log.
type MintEvent struct {
	TokenID     *big.Int
	Owner       string
	TokenURI    string
	BlockNumber uint64
}

// ChainBid is a bid tuple as read from the marketplace contract, with the
// amount still in wei.
type ChainBid struct {
	Bidder string
	Amount *big.Int
}

// Bid is the API projection of a chain bid, amount converted to a decimal
// ether string.
type Bid struct {
	Bidder string `json:"bidder"`
	Amount string `json:"amount"`
}

// Pin is one pinned object as reported by the storage provider.
type Pin struct {
	CID  string
	Name string
}

// UnsignedTx is an encoded contract call ready for external signing. The
// server never signs or broadcasts it.
type UnsignedTx struct {
	To    string `json:"to"`
	From  string `json:"from,omitempty"`
	Data  string `json:"data"`
	Value string `json:"value,omitempty"`
}
