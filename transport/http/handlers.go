package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/service"
)

// Handlers contains the HTTP handlers for all broker endpoints
type Handlers struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	tx      *service.TxService
}

// NewHandlers creates the handler set
func NewHandlers(auth *service.AuthService, catalog *service.CatalogService, tx *service.TxService) *Handlers {
	return &Handlers{
		auth:    auth,
		catalog: catalog,
		tx:      tx,
	}
}

// fail maps a service error to an HTTP status. Internal failures get a
// generic message; the detail is logged server-side only.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNoPendingChallenge):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No pending auth request, or session expired."})
	case errors.Is(err, core.ErrSignatureMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature verification failed."})
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrInvalidToken), errors.Is(err, core.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
	}
}

// RequestMessage issues a challenge message for the wallet to sign
func (h *Handlers) RequestMessage(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required."})
		return
	}

	message, err := h.auth.CreateChallenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// VerifySignature verifies a signed challenge and returns a session token
func (h *Handlers) VerifySignature(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress and signature are required."})
		return
	}

	token, err := h.auth.Verify(c.Request.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListAssets returns the full asset catalog
func (h *Handlers) ListAssets(c *gin.Context) {
	assets, err := h.catalog.ListAssets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

// GetAsset returns one asset by token id
func (h *Handlers) GetAsset(c *gin.Context) {
	asset, err := h.catalog.GetAsset(c.Request.Context(), c.Param("tokenId"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// GetBids returns the active bids for an asset
func (h *Handlers) GetBids(c *gin.Context) {
	bids, err := h.catalog.GetBids(c.Request.Context(), c.Param("tokenId"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bids)
}

// MintRequest pins the uploaded image and metadata and returns the unsigned
// mint transaction. The owner is the authenticated address, never a form
// field.
func (h *Handlers) MintRequest(c *gin.Context) {
	owner := c.GetString(userAddressKey)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}
	image, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer image.Close()

	tx, err := h.tx.Mint(c.Request.Context(), owner, service.MintParams{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Image:       image,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unsignedTx": tx})
}

// ListRequest returns the approve and list transactions for putting an
// asset on sale
func (h *Handlers) ListRequest(c *gin.Context) {
	var req struct {
		TokenID string `json:"tokenId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokenId is required."})
		return
	}

	seller := c.GetString(userAddressKey)
	approveTx, listTx, err := h.tx.List(c.Request.Context(), seller, req.TokenID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"approveTx": approveTx, "listTx": listTx})
}

// CreateBidTransaction returns the unsigned bid transaction
func (h *Handlers) CreateBidTransaction(c *gin.Context) {
	var req struct {
		TokenID   string `json:"tokenId" binding:"required"`
		BidAmount string `json:"bidAmount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokenId and bidAmount are required."})
		return
	}

	bidder := c.GetString(userAddressKey)
	tx, err := h.tx.Bid(c.Request.Context(), bidder, req.TokenID, req.BidAmount)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unsignedTx": tx})
}

// AcceptBid returns the unsigned accept-bid transaction
func (h *Handlers) AcceptBid(c *gin.Context) {
	var req struct {
		TokenID      string `json:"tokenId" binding:"required"`
		BuyerAddress string `json:"buyerAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokenId and buyerAddress are required."})
		return
	}

	seller := c.GetString(userAddressKey)
	tx, err := h.tx.AcceptBid(c.Request.Context(), seller, req.TokenID, req.BuyerAddress)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unsignedTx": tx})
}

// Portfolio returns the assets owned by the authenticated user
func (h *Handlers) Portfolio(c *gin.Context) {
	assets, err := h.catalog.GetOwned(c.Request.Context(), c.GetString(userAddressKey))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}
