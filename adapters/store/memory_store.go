package store

import (
	"context"
	"sync"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

// MemoryStore is an in-memory implementation of the NonceStore interface.
// Nonces are kept until deleted; there is no TTL sweep, which matches the
// single-process deployment this store is meant for.
type MemoryStore struct {
	nonces map[string]string
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory nonce store
func NewMemoryStore() ports.NonceStore {
	return &MemoryStore{
		nonces: make(map[string]string),
	}
}

// Put stores the nonce for the address, replacing any existing one
func (s *MemoryStore) Put(ctx context.Context, address, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nonces[address] = nonce
	return nil
}

// Get returns the stored nonce for the address, leaving it in place
func (s *MemoryStore) Get(ctx context.Context, address string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, ok := s.nonces[address]
	if !ok {
		return "", core.ErrNoPendingChallenge
	}

	return nonce, nil
}

// Delete removes the stored nonce for the address
func (s *MemoryStore) Delete(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.nonces, address)
	return nil
}
