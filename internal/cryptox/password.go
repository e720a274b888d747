package cryptox

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// GeneratePassword returns a random password of the given length drawn
// uniformly from letters, digits and a small symbol set.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("password length must be positive")
	}
	max := big.NewInt(int64(len(passwordChars)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordChars[n.Int64()]
	}
	return string(out), nil
}
