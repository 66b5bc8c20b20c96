package core

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAddress      = errors.New("invalid ethereum address")
	ErrNoPendingChallenge  = errors.New("no pending challenge")
	ErrSignatureMismatch   = errors.New("signature mismatch")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrChainUnavailable    = errors.New("chain unavailable")
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)
