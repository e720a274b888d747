package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/bridge"
	"github.com/dmitrijs2005/cryptopass/internal/client/cache"
	"github.com/dmitrijs2005/cryptopass/internal/client/client"
	"github.com/dmitrijs2005/cryptopass/internal/client/config"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/payment"
	"github.com/dmitrijs2005/cryptopass/internal/client/services"
	"github.com/dmitrijs2005/cryptopass/internal/client/session"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/filex"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/netx"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	vaultDBFile   = "vault.db"
	cacheFile     = "client-cache.db"
	bridgeQueue   = 16
	pingTimeout   = 3 * time.Second
	defaultPasswordLength = 20
)

// remoteStore is the store plus the DID session the auth service opens on it.
type remoteStore interface {
	client.Remote
	services.Loginer
}

// signerFactory picks the wallet at login time; the dev signer needs a
// passphrase from the prompt.
type signerFactory func(ctx context.Context, a *App) (wallet.Signer, error)

type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	remote    remoteStore
	db        *sql.DB
	cache     *cache.Store
	bridge    bridge.Publisher
	keys      *session.KeyHolder
	payer     payment.Payer
	newSigner signerFactory

	mu      sync.Mutex
	session *services.Session
	auth    *services.AuthService
	vault   *services.VaultSync
	shares  *services.ShareService
	notes   *services.NotificationService
	items   []models.Item
	Mode    Mode

	runBridge func(ctx context.Context)
}

// NewApp opens the local databases and connects the remote store and the
// bridge dialer. Nothing is signed in yet.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	dbPath, err := filex.DataFile(c.DataDir, vaultDBFile)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	cachePath, err := filex.DataFile(c.DataDir, cacheFile)
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(cachePath)
	if err != nil {
		return nil, err
	}

	remote, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	dialer := bridge.NewDialer(bridge.URLFor(c.BridgeAddr), bridgeQueue, c.ReconnectInterval, logger)

	var payer payment.Payer = payment.Bypass{}
	if c.PaymentsEnabled {
		payer = payment.NewRPCPayer(netx.NewRPCClient(c.EthRPCURL, nil))
	}

	a := newApp(c, logger, remote, db, store, dialer, payer, signerFor(c))
	a.runBridge = dialer.Run
	return a, nil
}

func newApp(
	c *config.Config,
	logger logging.Logger,
	remote remoteStore,
	db *sql.DB,
	store *cache.Store,
	pub bridge.Publisher,
	payer payment.Payer,
	newSigner signerFactory,
) *App {
	a := &App{
		config:    c,
		logger:    logger.With("module", "cli"),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
		remote:    remote,
		db:        db,
		cache:     store,
		bridge:    pub,
		keys:      session.NewKeyHolder(c.AutoLock()),
		payer:     payer,
		newSigner: newSigner,
	}
	a.keys.OnLock(a.onLock)
	return a
}

func signerFor(c *config.Config) signerFactory {
	if c.SignerMode == config.SignerRPC {
		rpc := netx.NewRPCClient(c.EthRPCURL, nil)
		return func(context.Context, *App) (wallet.Signer, error) {
			return wallet.NewRPCSigner(rpc), nil
		}
	}
	return func(_ context.Context, a *App) (wallet.Signer, error) {
		pass, err := getPassword("Wallet passphrase", a.out)
		if err != nil {
			return nil, err
		}
		defer common.WipeByteArray(pass)
		return wallet.NewDevSigner(string(pass)), nil
	}
}


// onLock runs from the idle timer: the decrypted items go with the key.
func (a *App) onLock() {
	a.mu.Lock()
	a.items = nil
	a.mu.Unlock()
	fmt.Fprintln(a.out, "\nVault locked after inactivity, type 'login' to unlock")
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run starts the background workers and the prompt. It returns when the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	if a.runBridge != nil {
		go a.runBridge(ctx)
	}
	go a.StartOnlineStatusWatcher(ctx, a.config.ReconnectInterval)

	printlnFn("Welcome to CryptoPass (type 'help' for commands)")
	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	a.keys.Clear()
	if err := a.remote.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing remote", "error", err)
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) getStatus() string {
	s := ""
	a.mu.Lock()
	if a.session != nil {
		s = services.ShortAddress(a.session.Credentials.Address) + " "
	}
	a.mu.Unlock()

	if a.keys.Locked() {
		s += "locked "
	}
	if m := a.mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the store every interval and flips Mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.remote.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
