package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user-not-found")
	ErrInsufficientBalance  = errors.New("insufficient-balance")
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
)

// Token verification errors
var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrExpiredToken          = errors.New("expired-token")
	ErrCorruptedToken        = errors.New("corrupted-token")
	ErrMissingIdentity       = errors.New("missing-identity")
)
