package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/bridge"
	"github.com/dmitrijs2005/cryptopass/internal/client/payment"
	"github.com/dmitrijs2005/cryptopass/internal/client/repositories/notifications"
	"github.com/dmitrijs2005/cryptopass/internal/client/repositories/shares"
	"github.com/dmitrijs2005/cryptopass/internal/client/services"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login signs in with the wallet, or unlocks a locked vault. The vault is
// loaded from the store; when the store is unreachable the last cached
// snapshot is used and the app switches to offline mode.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() && !a.keys.Locked() {
		fmt.Fprintln(a.out, "Already signed in")
		return nil
	}

	signer, err := a.newSigner(ctx, a)
	if err != nil {
		a.logger.Error(ctx, "wallet unavailable", "error", err)
		return err
	}

	auth := services.NewAuthService(signer, a.remote, a.cache, a.logger)
	sess, err := auth.Login(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	fee, err := payment.ParseWei(a.config.ShareFeeWei)
	if err != nil {
		return err
	}

	address := sess.Credentials.Address
	notes := services.NewNotificationService(notifications.NewSQLiteRepository(a.db), address)
	shareSvc, err := services.NewShareService(
		a.remote,
		shares.NewSQLiteRepository(a.db),
		notes,
		a.payer,
		services.ShareOptions{
			PaymentsEnabled: a.config.PaymentsEnabled,
			Fee:             fee,
			FeeRecipient:    a.config.FeeRecipient,
		},
		sess.Identity(),
		a.logger,
	)
	if err != nil {
		return err
	}

	a.keys.Set(sess.Key)

	a.mu.Lock()
	a.session = sess
	a.auth = auth
	a.vault = services.NewVaultSync(a.remote, sess.Credentials.DID.DID, a.logger)
	a.shares = shareSvc
	a.notes = notes
	a.mu.Unlock()

	a.bridge.Publish(bridge.NewHandoff(address, sess.Credentials.Signature, sess.Credentials.DID.DID))

	if err := a.load(ctx); err != nil {
		return err
	}

	n := len(a.snapshot())
	fmt.Fprintf(a.out, "Signed in as %s (%d items)\n", address, n)
	if unread, err := notes.UnreadCount(ctx); err == nil && unread > 0 {
		fmt.Fprintf(a.out, "You have %d unread notifications\n", unread)
	}
	return nil
}

// load replaces the in-memory vault with the store's view, or with the
// cached snapshot when the store cannot be reached.
func (a *App) load(ctx context.Context) error {
	key, err := a.keys.Key()
	if err != nil {
		return err
	}
	defer key.Wipe()

	res, err := a.vault.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrRemoteUnavailable) {
			a.logger.Error(ctx, "vault load failed", "error", err)
			return err
		}
		a.setMode(ModeOffline)
		cached, cerr := a.cache.Vault()
		if cerr != nil && !errors.Is(cerr, common.ErrorNotFound) {
			return cerr
		}
		fmt.Fprintln(a.out, "Store unavailable, using the cached vault")
		a.setItems(cached)
		a.broadcast()
		return nil
	}

	a.setMode(ModeOnline)
	if res.Skipped > 0 {
		fmt.Fprintf(a.out, "%d items could not be decrypted with this wallet and were skipped\n", res.Skipped)
	}
	a.setItems(res.Items)
	a.persist(true)
	a.broadcast()
	return nil
}

// Logout ends the session on this device and tells the extension.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	sess, auth, vault := a.session, a.auth, a.vault
	a.session, a.auth, a.vault = nil, nil, nil
	a.shares, a.notes = nil, nil
	a.items = nil
	a.mu.Unlock()

	if sess == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	a.keys.Clear()
	if vault != nil {
		vault.Forget()
	}
	a.bridge.Publish(bridge.NewLogout())

	if err := auth.Logout(ctx, sess); err != nil {
		a.logger.Error(ctx, "logout cleanup failed", "error", err)
		return err
	}

	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Lock drops the vault key and the decrypted items but keeps the session;
// login unlocks it again.
func (a *App) Lock(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, errNotLoggedIn)
		return errNotLoggedIn
	}
	a.keys.Lock()
	a.setItems(nil)
	fmt.Fprintln(a.out, "Vault locked")
	return nil
}
