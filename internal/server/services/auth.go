package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/auth"
	"github.com/dmitrijs2005/cryptopass/internal/server/config"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// AuthService logs DIDs in with a signed one-time nonce and mints access
// tokens whose subject is the DID.
type AuthService struct {
	challenges                  *auth.ChallengeStore
	metrics                     *metrics.Metrics
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewAuthService(challenges *auth.ChallengeStore, m *metrics.Metrics, cfg *config.Config) *AuthService {
	return &AuthService{
		challenges:                  challenges,
		metrics:                     m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Challenge issues a nonce for did. Malformed DIDs fail with
// wallet.ErrInvalidDID.
func (s *AuthService) Challenge(ctx context.Context, did string) (nonce string, expiresAt time.Time, err error) {
	defer s.metrics.Track("challenge", time.Now(), &err)

	if _, err := wallet.ParseDID(did); err != nil {
		return "", time.Time{}, err
	}
	return s.challenges.Issue(did)
}

// Login checks that signature is the DID's Ed25519 signature over the
// issued nonce. Any mismatch is common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, did, nonce string, signature []byte) (token string, expiresAt time.Time, err error) {
	defer s.metrics.Track("login", time.Now(), &err)

	if err := s.challenges.Consume(did, nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	if err := wallet.VerifyDID(did, []byte(nonce), signature); err != nil {
		if errors.Is(err, wallet.ErrInvalidDID) || errors.Is(err, wallet.ErrInvalidSignature) {
			return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
		}
		return "", time.Time{}, err
	}

	token, expiresAt, err = auth.GenerateToken(did, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", time.Time{}, common.ErrorInternal
	}
	return token, expiresAt, nil
}

// Owner resolves an access token to its DID.
func (s *AuthService) Owner(token string) (string, error) {
	return auth.GetOwnerFromToken(token, s.jwtSecret)
}
