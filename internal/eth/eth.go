// Package eth wraps the go-ethereum primitives used for EIP-191
// personal_sign message construction and signer recovery.
package eth

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChallengeMessage builds the deterministic message a wallet signs during
// authentication. The template must match byte for byte between challenge
// issuance and verification.
func ChallengeMessage(nonce string) string {
	return fmt.Sprintf("Welcome to BrickByBlock!\n\nPlease sign this message to authenticate.\n\nNonce: %s", nonce)
}

// RecoverAddress recovers the signer address from a personal_sign signature
// over message. Accepts both the raw {0,1} and the wallet {27,28} recovery
// id conventions.
func RecoverAddress(message string, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	normalized := make([]byte, 65)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// SignMessage produces a personal_sign signature over message in the wallet
// convention (recovery id 27/28). The server never calls this; it exists for
// tests and client tooling.
func SignMessage(message string, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[64] += 27
	return sig, nil
}
