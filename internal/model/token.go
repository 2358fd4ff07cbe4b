package model

import "github.com/google/uuid"

// TokenManager issues and verifies signed, stateless account tokens.
type TokenManager interface {
	// Issue returns a token that embeds accountID and an expiry.
	Issue(accountID uuid.UUID) (string, error)
	// Verify returns the embedded account ID, or ErrInvalidToken / ErrExpiredToken.
	Verify(token string) (uuid.UUID, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. It fails only with
	// ErrCorruptCredential when hash is malformed.
	Verify(password, hash string) (bool, error)
}
