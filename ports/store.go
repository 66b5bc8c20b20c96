package ports

import "context"

// NonceStore holds the pending challenge nonce per address. Put replaces any
// existing nonce for the address (last writer wins). Get leaves the nonce in
// place, so a failed verification can be retried against the same challenge;
// Delete removes it once the challenge has been answered.
type NonceStore interface {
	Put(ctx context.Context, address, nonce string) error

	// Get returns core.ErrNoPendingChallenge when no nonce is stored for
	// the address.
	Get(ctx context.Context, address string) (string, error)

	// Delete is a no-op when nothing is stored.
	Delete(ctx context.Context, address string) error
}
