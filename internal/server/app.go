// Package server wires the document store: storage backends, services, the
// gRPC endpoint and the metrics/health HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/server/auth"
	"github.com/dmitrijs2005/cryptopass/internal/server/config"
	"github.com/dmitrijs2005/cryptopass/internal/server/httpapi"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/documents"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/shares"
	"github.com/dmitrijs2005/cryptopass/internal/server/services"

	gs "github.com/dmitrijs2005/cryptopass/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	metrics   *metrics.Metrics
	auth      *services.AuthService
	documents *services.DocumentService
	mailbox   *services.MailboxService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, logging.Options{Level: c.LogLevel, JSON: true})
	if err != nil {
		return nil, err
	}
	return newApp(ctx, c, logger, repomanager.NewPostgresRepositoryManager())
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	var db *sql.DB
	if c.UsesPostgres() {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	backend, err := newBackend(ctx, c, db, rm)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	m := metrics.New()

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		metrics:   m,
		auth:      services.NewAuthService(auth.NewChallengeStore(c.ChallengeTTL), m, c),
		documents: services.NewDocumentService(backend, m, logger),
		mailbox:   services.NewMailboxService(backend, m, logger),
	}, nil
}

// newBackend picks repositories per configured storage. Two postgres stores
// share one SQL backend so read-modify-write runs in a transaction.
func newBackend(ctx context.Context, c *config.Config, db *sql.DB, rm repomanager.RepositoryManager) (services.Backend, error) {
	if c.DocumentStorage == config.StoragePostgres && c.MailboxStorage == config.StoragePostgres {
		return services.NewSQLBackend(db, rm), nil
	}

	var docs documents.Repository
	switch c.DocumentStorage {
	case config.StoragePostgres:
		docs = rm.Documents(db)
	case config.StorageMemory:
		docs = documents.NewMemoryRepository()
	case config.StorageS3:
		client, err := documents.NewS3Client(ctx, documents.S3Settings{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		docs = documents.NewS3Repository(client, c.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown document storage %q", c.DocumentStorage)
	}

	var sh shares.Repository
	switch c.MailboxStorage {
	case config.StoragePostgres:
		sh = rm.Shares(db)
	case config.StorageMemory:
		sh = shares.NewMemoryRepository()
	default:
		return nil, fmt.Errorf("unsupported mailbox storage %q", c.MailboxStorage)
	}

	return services.NewStaticBackend(docs, sh), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.auth, app.documents, app.mailbox)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	var pinger httpapi.Pinger
	if app.db != nil {
		pinger = app.db
	}
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.metrics.Registry(), pinger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"documents", app.config.DocumentStorage, "mailbox", app.config.MailboxStorage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
