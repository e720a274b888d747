package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dmitrijs2005/cryptopass/internal/client/cache"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

type fakeLoginer struct {
	err     error
	did     string
	logouts int
}

func (f *fakeLoginer) Login(_ context.Context, key *wallet.DIDKey) error {
	if f.err != nil {
		return f.err
	}
	f.did = key.DID
	return nil
}

func (f *fakeLoginer) Logout() { f.logouts++ }

func openCache(t *testing.T) *cache.Store {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAuthService_Login(t *testing.T) {
	keyring.MockInit()
	signer := wallet.NewDevSigner("correct horse")
	remote := &fakeLoginer{}
	c := openCache(t)

	sess, err := NewAuthService(signer, remote, c, nil).Login(context.Background())
	require.NoError(t, err)

	address, _ := signer.RequestAccounts(context.Background())
	sig, _ := signer.PersonalSign(context.Background(), wallet.EncryptionMessage(address), address)

	assert.Equal(t, address, sess.Credentials.Address)
	assert.True(t, cryptox.DeriveKey(sig).Equal(sess.Key))
	assert.Equal(t, sess.Credentials.DID.DID, remote.did)

	saved, err := c.Session()
	require.NoError(t, err)
	assert.Equal(t, address, saved.Address)

	stored, err := cache.Signature(address)
	require.NoError(t, err)
	assert.Equal(t, sig, stored)
}

func TestAuthService_LoginOffline(t *testing.T) {
	keyring.MockInit()
	remote := &fakeLoginer{err: common.ErrRemoteUnavailable}

	sess, err := NewAuthService(wallet.NewDevSigner("p"), remote, nil, nil).Login(context.Background())
	require.NoError(t, err)
	assert.False(t, sess.Key.IsZero())
}

func TestAuthService_LoginRejected(t *testing.T) {
	remote := &fakeLoginer{err: common.ErrorUnauthorized}

	_, err := NewAuthService(wallet.NewDevSigner("p"), remote, nil, nil).Login(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

type failingSigner struct{}

func (failingSigner) RequestAccounts(context.Context) (string, error) {
	return "", errors.New("user rejected")
}

func (failingSigner) PersonalSign(context.Context, string, string) (string, error) {
	return "", errors.New("unreachable")
}

func TestAuthService_WalletError(t *testing.T) {
	_, err := NewAuthService(failingSigner{}, nil, nil, nil).Login(context.Background())
	assert.Error(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	keyring.MockInit()
	remote := &fakeLoginer{}
	c := openCache(t)
	a := NewAuthService(wallet.NewDevSigner("p"), remote, c, nil)

	sess, err := a.Login(context.Background())
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background(), sess))

	assert.Equal(t, 1, remote.logouts)
	assert.True(t, sess.Key.IsZero())
	_, err = c.Session()
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = cache.Signature(sess.Credentials.Address)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
