package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"golang.org/x/crypto/nacl/box"
)

const boxKeyLabel = "CryptoPass-Share-Box-v1"

// BoxKeyPair holds an X25519 key pair used to receive sealed shares.
type BoxKeyPair struct {
	Public  [32]byte
	Private [32]byte
}

// DeriveBoxKeyPair derives the share-receiving key pair from the vault key,
// so a wallet always publishes the same public key.
func DeriveBoxKeyPair(key Key) (*BoxKeyPair, error) {
	h := sha256.New()
	h.Write([]byte(boxKeyLabel))
	h.Write(key[:])
	seed := h.Sum(nil)
	defer common.WipeByteArray(seed)

	pub, priv, err := box.GenerateKey(&seedReader{seed: seed})
	if err != nil {
		return nil, fmt.Errorf("failed to derive box key: %w", err)
	}
	return &BoxKeyPair{Public: *pub, Private: *priv}, nil
}

// PublicBase64 returns the public half in the form users exchange.
func (kp *BoxKeyPair) PublicBase64() string {
	return base64.StdEncoding.EncodeToString(kp.Public[:])
}

// ParseBoxPublicKey decodes a base64 X25519 public key.
func ParseBoxPublicKey(s string) (*[32]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) != 32 {
		return nil, fmt.Errorf("malformed box public key")
	}
	var pk [32]byte
	copy(pk[:], b)
	return &pk, nil
}

// SealKey wraps a content key for the owner of recipient. Only the matching
// private key can open it.
func SealKey(contentKey Key, recipient *[32]byte) ([]byte, error) {
	return box.SealAnonymous(nil, contentKey[:], recipient, rand.Reader)
}

// OpenKey unwraps a content key sealed with SealKey.
func OpenKey(sealed []byte, kp *BoxKeyPair) (Key, error) {
	raw, ok := box.OpenAnonymous(nil, sealed, &kp.Public, &kp.Private)
	if !ok {
		return Key{}, common.ErrAuthentication
	}
	defer common.WipeByteArray(raw)
	k, err := KeyFromBytes(raw)
	if err != nil {
		return Key{}, common.ErrAuthentication
	}
	return k, nil
}

// RandomKey returns a fresh one-time content key.
func RandomKey() Key {
	var k Key
	copy(k[:], common.GenerateRandByteArray(KeySize))
	return k
}

// seedReader feeds a fixed seed to box.GenerateKey, which reads exactly 32 bytes.
type seedReader struct {
	seed []byte
	off  int
}

func (r *seedReader) Read(p []byte) (int, error) {
	n := copy(p, r.seed[r.off:])
	r.off += n
	if n < len(p) {
		return n, fmt.Errorf("seed exhausted")
	}
	return n, nil
}
