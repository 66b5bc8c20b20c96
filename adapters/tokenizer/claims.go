package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by a session token. The registered
// claims are enough: subject is the wallet address, ID the session JTI.
type SessionClaims struct {
	jwt.RegisteredClaims
}
