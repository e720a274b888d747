package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/cache"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

// LocalCache is the part of cache.Store the receiver writes to.
type LocalCache interface {
	SaveSession(cache.Session) error
	Session() (cache.Session, error)
	SaveVault([]models.Item) error
	MarkSynced(time.Time) error
	Clear() error
}

// KeySink receives the key rebuilt from a handoff.
type KeySink interface {
	Set(cryptox.Key)
	Clear()
}

// Receiver applies bridge messages to the local state of the receiving
// context. A snapshot replaces the cached vault wholesale.
type Receiver struct {
	cache  LocalCache
	keys   KeySink
	logger logging.Logger
	now    func() time.Time
}

func NewReceiver(c LocalCache, keys KeySink, logger logging.Logger) *Receiver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Receiver{cache: c, keys: keys, logger: logger.With("module", "receiver"), now: time.Now}
}

func (r *Receiver) Apply(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	switch m.Type {
	case KindCredentialHandoff:
		if err := r.cache.SaveSession(cache.Session{Address: m.WalletAddress, DID: m.Identity}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		if err := cache.SaveSignature(m.WalletAddress, m.DerivedSignature); err != nil {
			r.logger.Warn(ctx, "keyring unavailable", "error", err)
		}
		if r.keys != nil {
			r.keys.Set(cryptox.DeriveKey(m.DerivedSignature))
		}
		r.logger.Info(ctx, "credentials received", "address", m.WalletAddress)

	case KindVaultSnapshot:
		items, err := m.SnapshotItems()
		if err != nil {
			return err
		}
		if err := r.cache.SaveVault(items); err != nil {
			return fmt.Errorf("save vault: %w", err)
		}
		if err := r.cache.MarkSynced(r.now()); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		r.logger.Info(ctx, "vault snapshot received", "items", len(items))

	case KindLogout:
		if r.keys != nil {
			r.keys.Clear()
		}
		if sess, err := r.cache.Session(); err == nil {
			if err := cache.DeleteSignature(sess.Address); err != nil {
				r.logger.Warn(ctx, "failed to delete keyring entry", "error", err)
			}
		}
		if err := r.cache.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		r.logger.Info(ctx, "logged out")
	}
	return nil
}

// Run applies messages from sub until ctx is cancelled or the
// subscription closes. Failures are logged and do not stop the loop.
func (r *Receiver) Run(ctx context.Context, sub Subscriber) {
	ch, cancel := sub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			if err := r.Apply(ctx, m); err != nil {
				r.logger.Warn(ctx, "failed to apply bridge message", "type", m.Type, "error", err)
			}
		}
	}
}
