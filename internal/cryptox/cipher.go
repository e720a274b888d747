package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/common"
)

const (
	// IVSize is the AES-GCM nonce length used for every encryption.
	IVSize = 12
	// TagSize is the AES-GCM authentication tag length.
	TagSize = 16
)

// Sealed is the output of Encrypt: the ciphertext (with the GCM tag appended)
// and the IV it was sealed under.
type Sealed struct {
	IV         []byte
	Ciphertext []byte
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random IV.
func Encrypt(plaintext []byte, key Key) (Sealed, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Sealed{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return Sealed{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	return Sealed{IV: iv, Ciphertext: gcm.Seal(nil, iv, plaintext, nil)}, nil
}

// Decrypt opens a Sealed value. Every failure to authenticate, including a
// malformed IV or a ciphertext shorter than the tag, is reported as
// common.ErrAuthentication.
func Decrypt(s Sealed, key Key) ([]byte, error) {
	if len(s.IV) != IVSize || len(s.Ciphertext) < TagSize {
		return nil, common.ErrAuthentication
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, s.IV, s.Ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthentication
	}
	return plaintext, nil
}

// EncodeBase64 returns the transport form of s: ciphertext and iv as
// standard padded base64.
func (s Sealed) EncodeBase64() (ciphertext, iv string) {
	return base64.StdEncoding.EncodeToString(s.Ciphertext), base64.StdEncoding.EncodeToString(s.IV)
}

// DecodeSealed is the inverse of EncodeBase64. Undecodable input cannot be
// authenticated and yields common.ErrAuthentication.
func DecodeSealed(ciphertext, iv string) (Sealed, error) {
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return Sealed{}, fmt.Errorf("%w: ciphertext encoding: %v", common.ErrAuthentication, err)
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return Sealed{}, fmt.Errorf("%w: iv encoding: %v", common.ErrAuthentication, err)
	}
	return Sealed{IV: nonce, Ciphertext: ct}, nil
}
