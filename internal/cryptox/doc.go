// Package cryptox implements the vault's key derivation and authenticated
// encryption.
//
// # Key derivation
//
// DeriveKey turns a wallet signature into an AES-256 key with PBKDF2-SHA256
// over a fixed salt and iteration count. Every client that wants to read the
// same vault must use the exact same parameters; they are part of the wire
// format and carry no version tag. The salt is shared by all users, so the
// strength of a key is the entropy of the signature it was derived from.
//
// # Encryption
//
// Encrypt seals a payload with AES-256-GCM under a fresh random 12-byte IV.
// Decrypt fails with common.ErrAuthentication for any wrong key, tampered or
// truncated input; there is no partial result. Sealed values travel as
// standard padded base64 (see EncodeBase64 and DecodeSealed).
package cryptox
