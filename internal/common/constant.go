// Package common contains shared constants and sentinel errors used across
// CryptoPass components.
package common

const (
	// AccessTokenHeaderName is the gRPC metadata key carrying the JWT.
	AccessTokenHeaderName = "access_token"

	// ServiceName labels CryptoPass entries in the OS keyring.
	ServiceName = "cryptopass"
)
