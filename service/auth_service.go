package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/internal/eth"
	"github.com/brickbyblock/broker/ports"
)

// DefaultSessionTTL is how long an issued session token stays valid. There
// is no early revocation; logout is client-side deletion.
const DefaultSessionTTL = 24 * time.Hour

// AuthService implements the challenge-response wallet authentication flow:
// issue a nonce, verify the wallet's signature over the deterministic
// message, mint a self-contained session token.
type AuthService struct {
	store      ports.NonceStore
	tokenizer  ports.Tokenizer
	eventPub   ports.EventPublisher
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service. eventPub may be nil;
// login events are best-effort. A zero sessionTTL falls back to
// DefaultSessionTTL.
func NewAuthService(store ports.NonceStore, tokenizer ports.Tokenizer, eventPub ports.EventPublisher, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		store:      store,
		tokenizer:  tokenizer,
		eventPub:   eventPub,
		sessionTTL: sessionTTL,
	}
}

// CreateChallenge generates a fresh nonce for the address and returns the
// message the wallet must sign. A second call for the same address replaces
// the first nonce: last writer wins, one active challenge per address.
func (s *AuthService) CreateChallenge(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", core.ErrInvalidAddress
	}

	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	if err := s.store.Put(ctx, strings.ToLower(address), nonce); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}

	return eth.ChallengeMessage(nonce), nil
}

// Verify recovers the signer from the signature over the reconstructed
// challenge message and mints a session token bound to the lowercased
// address. The nonce is deleted only on success: a wrong signature leaves
// the challenge pending, so the rightful signer can still answer it, and a
// stranger cannot burn it with garbage.
func (s *AuthService) Verify(ctx context.Context, address, signature string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", core.ErrInvalidAddress
	}
	lower := strings.ToLower(address)

	nonce, err := s.store.Get(ctx, lower)
	if err != nil {
		return "", err
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("malformed signature: %v: %w", err, core.ErrInvalidInput)
	}

	recovered, err := eth.RecoverAddress(eth.ChallengeMessage(nonce), sig)
	if err != nil {
		return "", fmt.Errorf("recovery failed: %v: %w", err, core.ErrSignatureMismatch)
	}
	if !strings.EqualFold(recovered.Hex(), address) {
		return "", core.ErrSignatureMismatch
	}

	if err := s.store.Delete(ctx, lower); err != nil {
		return "", fmt.Errorf("failed to consume nonce: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		ID:        uuid.New().String(),
		Address:   lower,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, lower, session.ID); err != nil {
			// The session is already issued; a lost event must not fail
			// the login.
			slog.Warn("failed to publish login event", "address", lower, "error", err)
		}
	}

	return token, nil
}

// ValidateToken verifies a bearer token and returns the session it carries
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.Session, error) {
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrTokenExpired
	}

	return session, nil
}
