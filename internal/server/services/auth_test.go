package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/auth"
	"github.com/dmitrijs2005/cryptopass/internal/server/config"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

func newAuthService() *AuthService {
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	return NewAuthService(auth.NewChallengeStore(time.Minute), metrics.New(), cfg)
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newAuthService()
	key := wallet.DeriveDID("0xsignature")

	nonce, exp, err := s.Challenge(ctx, key.DID)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	token, _, err := s.Login(ctx, key.DID, nonce, key.Sign([]byte(nonce)))
	require.NoError(t, err)

	owner, err := s.Owner(token)
	require.NoError(t, err)
	assert.Equal(t, key.DID, owner)
}

func TestAuthService_NonceIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := newAuthService()
	key := wallet.DeriveDID("0xsignature")

	nonce, _, err := s.Challenge(ctx, key.DID)
	require.NoError(t, err)
	sig := key.Sign([]byte(nonce))

	_, _, err = s.Login(ctx, key.DID, nonce, sig)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, key.DID, nonce, sig)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthService_WrongKeyRejected(t *testing.T) {
	ctx := context.Background()
	s := newAuthService()
	alice := wallet.DeriveDID("alice")
	mallory := wallet.DeriveDID("mallory")

	nonce, _, err := s.Challenge(ctx, alice.DID)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, alice.DID, nonce, mallory.Sign([]byte(nonce)))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthService_ChallengeRejectsMalformedDID(t *testing.T) {
	_, _, err := newAuthService().Challenge(context.Background(), "did:web:example.com")
	assert.ErrorIs(t, err, wallet.ErrInvalidDID)
}
