package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by stores when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate")
	// ErrStatusChanged is returned by conditional status updates when the
	// account no longer has the expected status.
	ErrStatusChanged = errors.New("status changed concurrently")

	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token is expired")

	// ErrCorruptCredential means a stored password hash cannot be parsed.
	ErrCorruptCredential = errors.New("stored credential is corrupt")
	// ErrPasswordTooLong is returned by hashers that cap the input length.
	ErrPasswordTooLong = errors.New("password is too long")
)
