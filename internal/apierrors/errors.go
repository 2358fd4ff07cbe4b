// Package apierrors defines the typed failures surfaced to API callers.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindDuplicateAccount   Kind = "DuplicateAccount"
	KindMissingCredentials Kind = "MissingCredentials"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindNotApproved        Kind = "NotApproved"
	KindValidation         Kind = "ValidationError"
	KindProfileForbidden   Kind = "ProfileForbidden"
	KindForbidden          Kind = "Forbidden"
	KindInvalidToken       Kind = "InvalidToken"
	KindExpiredToken       Kind = "ExpiredToken"
	KindCorruptCredential  Kind = "CorruptCredential"
	KindNotFound           Kind = "NotFound"
	KindServerError        Kind = "ServerError"
)

// APIError is a failure with a short human-readable message and the HTTP
// status it maps to. Err keeps the internal cause and is never shown to
// callers outside development mode.
type APIError struct {
	Kind     Kind
	HTTPCode int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindServerError when err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServerError
}

func NewErrDuplicateAccount(email string) *APIError {
	return &APIError{
		Kind:     KindDuplicateAccount,
		HTTPCode: http.StatusConflict,
		Message:  "User already exists",
		Err:      fmt.Errorf("email %q is already registered", email),
	}
}

func NewErrMissingCredentials(message string) *APIError {
	return &APIError{Kind: KindMissingCredentials, HTTPCode: http.StatusBadRequest, Message: message}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, HTTPCode: http.StatusBadRequest, Message: "Invalid credentials"}
}

// NewErrIncorrectCurrentPassword is InvalidCredentials raised by a password change.
func NewErrIncorrectCurrentPassword() *APIError {
	return &APIError{Kind: KindInvalidCredentials, HTTPCode: http.StatusBadRequest, Message: "Current password is incorrect"}
}

func NewErrNotApproved() *APIError {
	return &APIError{Kind: KindNotApproved, HTTPCode: http.StatusForbidden, Message: "Account not approved yet"}
}

func NewErrValidation(message string, err error) *APIError {
	return &APIError{Kind: KindValidation, HTTPCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewErrProfileForbidden() *APIError {
	return &APIError{Kind: KindProfileForbidden, HTTPCode: http.StatusForbidden, Message: "Profile is private"}
}

func NewErrAdminRequired() *APIError {
	return &APIError{Kind: KindForbidden, HTTPCode: http.StatusForbidden, Message: "Admin access required"}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindInvalidToken, HTTPCode: http.StatusUnauthorized, Message: "Not authorized, no token"}
}

func NewErrInvalidToken(err error) *APIError {
	return &APIError{Kind: KindInvalidToken, HTTPCode: http.StatusUnauthorized, Message: "Not authorized, token failed", Err: err}
}

func NewErrExpiredToken(err error) *APIError {
	return &APIError{Kind: KindExpiredToken, HTTPCode: http.StatusUnauthorized, Message: "Not authorized, token expired", Err: err}
}

func NewErrCorruptCredential(err error) *APIError {
	return &APIError{Kind: KindCorruptCredential, HTTPCode: http.StatusInternalServerError, Message: "Server error", Err: err}
}

func NewErrNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: message}
}

func NewErrInternalServerError(err error) *APIError {
	return &APIError{Kind: KindServerError, HTTPCode: http.StatusInternalServerError, Message: "Server error", Err: err}
}
