package core

import "time"

// Challenge is a pending authentication challenge. At most one challenge is
// active per address; issuing a new one replaces the previous nonce.
type Challenge struct {
	Address  string    // Lowercased wallet address the nonce is bound to
	Nonce    string    // Hex-encoded random nonce embedded in the signed message
	IssuedAt time.Time // When the challenge was created
}

// Session represents an authenticated user session. The session is carried
// entirely by its signed token; there is no server-side session record.
type Session struct {
	ID        string    // Unique session identifier (token JTI)
	Address   string    // Lowercased wallet address of the user
	IssuedAt  time.Time // When the session was created
	ExpiresAt time.Time // When the session expires
}
