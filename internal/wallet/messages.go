// Package wallet covers everything the vault needs from an Ethereum wallet:
// the fixed messages it signs, the signer abstraction and the did:key
// identity derived from a signature.
package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// The two message templates below are signed by every client that wants to
// read the same vault. Any byte change breaks key derivation for existing
// data.
const (
	encryptionMessagePrefix = "Sign this message to authenticate with CryptoPass and derive your encryption key.\n\n" +
		"NOTE: This signature is used to encrypt/decrypt your passwords. Always use the same wallet address to access your data.\n\n" +
		"Wallet: "

	didSeedMessagePrefix = "CryptoPass DID Seed\n\n" +
		"This signature is used to create your decentralized identity for Ceramic.\n" +
		"Wallet: "
)

var addressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// EncryptionMessage is the message whose signature feeds cryptox.DeriveKey.
func EncryptionMessage(address string) string {
	return encryptionMessagePrefix + address
}

// DIDSeedMessage is the message whose signature seeds the DID key pair.
func DIDSeedMessage(address string) string {
	return didSeedMessagePrefix + address
}

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	return addressRe.MatchString(s)
}

// HashAddress is the one-way form an address is stored under in the share
// mailbox: SHA-256 hex of the lower-cased address.
func HashAddress(address string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(address)))
	return hex.EncodeToString(sum[:])
}
