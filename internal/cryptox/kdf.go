package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. Changing any of them makes previously encrypted
// data unreadable.
const (
	KDFSalt       = "CryptoPass-Salt-v1"
	KDFIterations = 100000
	KeySize       = 32
)

// Key is a 256-bit AES key.
type Key [KeySize]byte

// DeriveKey derives the vault key from a wallet signature. It is pure and
// deterministic: the same signature string always yields the same key.
func DeriveKey(signature string) Key {
	raw := pbkdf2.Key([]byte(signature), []byte(KDFSalt), KDFIterations, KeySize, sha256.New)
	defer common.WipeByteArray(raw)

	var k Key
	copy(k[:], raw)
	return k
}

// KeyFromBytes copies b into a Key. It fails with ErrKeyNotInitialized when b
// has the wrong length.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, common.ErrKeyNotInitialized
	}
	copy(k[:], b)
	return k, nil
}

// Bytes returns a copy of the key material.
func (k Key) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, k[:])
	return b
}

// Equal compares two keys in constant time.
func (k Key) Equal(other Key) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// IsZero reports whether the key was never set or has been wiped.
func (k Key) IsZero() bool {
	var zero Key
	return k.Equal(zero)
}

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	common.WipeByteArray(k[:])
}

// Fingerprint is a short, non-secret identifier of the key, useful in logs.
func (k Key) Fingerprint() string {
	sum := sha256.Sum256(k[:])
	return hex.EncodeToString(sum[:4])
}
