// Package extension is the second client context. It listens for bridge
// messages from the interactive client, keeps the local cache current and
// re-derives the vault key from the keyring on start.
package extension

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/bridge"
	"github.com/dmitrijs2005/cryptopass/internal/client/cache"
	"github.com/dmitrijs2005/cryptopass/internal/client/config"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/session"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/filex"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

const cacheFile = "extension-cache.db"

type App struct {
	config   *config.Config
	logger   logging.Logger
	cache    *cache.Store
	keys     *session.KeyHolder
	hub      *bridge.Hub
	receiver *bridge.Receiver
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	path, err := filex.DataFile(c.DataDir, cacheFile)
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(path)
	if err != nil {
		return nil, err
	}

	return newApp(c, logger, store), nil
}

func newApp(c *config.Config, logger logging.Logger, store *cache.Store) *App {
	keys := session.NewKeyHolder(c.AutoLock())
	return &App{
		config:   c,
		logger:   logger.With("module", "extension"),
		cache:    store,
		keys:     keys,
		hub:      bridge.NewHub(c.BridgeAllowedOrigins, logger),
		receiver: bridge.NewReceiver(store, keys, logger),
	}
}

// Restore rebuilds the key from the signature kept in the keyring, so a
// restarted extension can read the cached vault without a new handoff.
func (a *App) Restore(ctx context.Context) error {
	sess, err := a.cache.Session()
	if err != nil {
		return err
	}
	sig, err := cache.Signature(sess.Address)
	if err != nil {
		return err
	}
	a.keys.Set(cryptox.DeriveKey(sig))
	a.logger.Info(ctx, "session restored", "address", sess.Address)
	return nil
}

// Run serves the bridge until a signal arrives or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	if err := a.Restore(ctx); err != nil && !errors.Is(err, common.ErrorNotFound) {
		a.logger.Warn(ctx, "cannot restore session", "error", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			a.logger.Info(ctx, "Received signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	go a.receiver.Run(ctx, a.hub)

	return a.hub.Run(ctx, a.config.BridgeAddr, nil)
}

// Close drops the key and closes the cache.
func (a *App) Close() {
	a.keys.Clear()
	if err := a.cache.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing cache", "error", err)
	}
}

// PrintVault writes the cached session and vault to w. Passwords and card
// numbers are not printed.
func (a *App) PrintVault(w io.Writer) error {
	sess, err := a.cache.Session()
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(w, "No session, sign in from the client first")
		return nil
	}
	if err != nil {
		return err
	}

	items, err := a.cache.Vault()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Wallet %s\n", sess.Address)
	if sess.LastSync > 0 {
		fmt.Fprintf(w, "Last sync %s\n", formatMillis(sess.LastSync))
	}
	fmt.Fprintf(w, "%d items\n", len(items))
	for _, it := range items {
		fmt.Fprintf(w, "  %-8s %s%s\n", it.Type(), it.Title, summary(it))
	}
	return nil
}

func summary(it models.Item) string {
	switch p := it.Payload.(type) {
	case models.Login:
		if p.URL != "" {
			return fmt.Sprintf("  %s @ %s", p.Username, p.URL)
		}
		return "  " + p.Username
	case models.Card:
		if n := len(p.CardNumber); n >= 4 {
			return "  **** " + p.CardNumber[n-4:]
		}
	}
	return ""
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
