// Package auth issues and checks access tokens and login challenges.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the owner DID in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

func GenerateToken(owner string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(validityDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// GetOwnerFromToken validates the token and returns its subject.
// An expired token yields common.ErrTokenExpired so clients know to log in
// again; every other failure is common.ErrInvalidToken.
func GetOwnerFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
