// Package common defines shared constants and sentinel errors used across
// client and server layers of CryptoPass. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrAuthentication is returned when an AEAD tag does not verify: wrong
	// key, tampered or truncated ciphertext. During batch loads it is
	// recoverable and the entry is skipped.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRemoteUnavailable wraps network/store failures. Pushes are safe to retry.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Share flow errors. All of them abort before the request is persisted.
	ErrPaymentRequired  = errors.New("payment required")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrInvalidRecipient = errors.New("invalid recipient")

	// Share lifecycle errors.
	ErrShareExpired = errors.New("share request expired")
	ErrShareFinal   = errors.New("share request already resolved")

	// Key material errors.
	ErrKeyNotInitialized = errors.New("master key not initialized")
	ErrVaultLocked       = errors.New("vault locked")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
