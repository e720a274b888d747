package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/cache"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// Loginer opens an authenticated session on the remote store.
type Loginer interface {
	Login(ctx context.Context, key *wallet.DIDKey) error
	Logout()
}

// SessionCache persists the non-secret session between runs.
type SessionCache interface {
	SaveSession(cache.Session) error
	Session() (cache.Session, error)
	Clear() error
}

// Session is a signed-in wallet.
type Session struct {
	Credentials *wallet.Credentials
	Key         cryptox.Key
}

// Identity returns the wallet address and vault key.
func (s *Session) Identity() Identity {
	return Identity{Address: s.Credentials.Address, Key: s.Key}
}

// AuthService signs in with the wallet, derives the vault key and opens the
// remote session with the DID.
type AuthService struct {
	signer wallet.Signer
	remote Loginer
	cache  SessionCache
	logger logging.Logger
}

func NewAuthService(signer wallet.Signer, remote Loginer, c SessionCache, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AuthService{signer: signer, remote: remote, cache: c, logger: logger.With("module", "auth")}
}

// Login runs the wallet handshake. The remote login is best effort: when
// the store is unreachable the session still works from the local cache.
func (a *AuthService) Login(ctx context.Context) (*Session, error) {
	creds, err := wallet.Authenticate(ctx, a.signer)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}

	sess := &Session{Credentials: creds, Key: cryptox.DeriveKey(creds.Signature)}

	if a.remote != nil {
		if err := a.remote.Login(ctx, creds.DID); err != nil {
			if !errors.Is(err, common.ErrRemoteUnavailable) {
				return nil, fmt.Errorf("login error: %w", err)
			}
			a.logger.Warn(ctx, "remote store unavailable, working offline", "error", err)
		}
	}

	if a.cache != nil {
		if err := a.cache.SaveSession(cache.Session{Address: creds.Address, DID: creds.DID.DID}); err != nil {
			return nil, fmt.Errorf("session saving error: %w", err)
		}
		if err := cache.SaveSignature(creds.Address, creds.Signature); err != nil {
			a.logger.Warn(ctx, "keyring unavailable", "error", err)
		}
	}

	a.logger.Info(ctx, "signed in", "address", creds.Address, "did", creds.DID.DID)
	return sess, nil
}

// Logout ends the remote session and wipes local session state.
func (a *AuthService) Logout(ctx context.Context, sess *Session) error {
	if a.remote != nil {
		a.remote.Logout()
	}
	if sess != nil {
		sess.Key.Wipe()
	}
	if a.cache == nil {
		return nil
	}

	if c, err := a.cache.Session(); err == nil {
		if err := cache.DeleteSignature(c.Address); err != nil {
			a.logger.Warn(ctx, "failed to delete keyring entry", "error", err)
		}
	}
	return a.cache.Clear()
}
