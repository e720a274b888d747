package wallet

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"strings"

	"github.com/mr-tron/base58"
)

const didKeyPrefix = "did:key:z"

// multicodec prefix for an ed25519 public key.
var ed25519Multicodec = []byte{0xed, 0x01}

var (
	ErrInvalidDID       = errors.New("invalid did:key")
	ErrInvalidSignature = errors.New("invalid did signature")
)

// DIDKey is the Ed25519 identity used to authenticate to the document store.
type DIDKey struct {
	DID     string
	private ed25519.PrivateKey
}

// DeriveDID seeds an Ed25519 key with SHA-256 of the DID-seed signature.
func DeriveDID(signature string) *DIDKey {
	seed := sha256.Sum256([]byte(signature))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return &DIDKey{DID: EncodeDID(pub), private: priv}
}

// Sign signs msg with the DID key.
func (k *DIDKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.private, msg)
}

// EncodeDID renders pub as did:key (multibase base58btc, multicodec ed25519).
func EncodeDID(pub ed25519.PublicKey) string {
	buf := make([]byte, 0, len(ed25519Multicodec)+len(pub))
	buf = append(buf, ed25519Multicodec...)
	buf = append(buf, pub...)
	return didKeyPrefix + base58.Encode(buf)
}

// ParseDID extracts the Ed25519 public key from a did:key string.
func ParseDID(did string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(did, didKeyPrefix) {
		return nil, ErrInvalidDID
	}
	raw, err := base58.Decode(strings.TrimPrefix(did, didKeyPrefix))
	if err != nil {
		return nil, ErrInvalidDID
	}
	if len(raw) != len(ed25519Multicodec)+ed25519.PublicKeySize || !bytes.HasPrefix(raw, ed25519Multicodec) {
		return nil, ErrInvalidDID
	}
	return ed25519.PublicKey(raw[len(ed25519Multicodec):]), nil
}

// VerifyDID checks that sig over msg was made by the key behind did.
func VerifyDID(did string, msg, sig []byte) error {
	pub, err := ParseDID(did)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pub, msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}
