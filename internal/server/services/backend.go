// Package services contains the business logic of the document store:
// owner-scoped documents, DID challenge login and the share mailbox.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cryptopass/internal/dbx"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/documents"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/shares"
)

// Repos is the set of repositories visible inside one unit of work.
type Repos struct {
	Documents documents.Repository
	Shares    shares.Repository
}

// Backend hands repositories to the services. Read-modify-write sequences go
// through WithTx so SQL backends run them in one transaction.
type Backend interface {
	Repos() Repos
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// SQLBackend vends repomanager repositories over a database handle.
type SQLBackend struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSQLBackend(db *sql.DB, rm repomanager.RepositoryManager) *SQLBackend {
	return &SQLBackend{db: db, repomanager: rm}
}

func (b *SQLBackend) Repos() Repos {
	return Repos{Documents: b.repomanager.Documents(b.db), Shares: b.repomanager.Shares(b.db)}
}

// txAttempts bounds how often a conflicting transaction is started over.
const txAttempts = 3

func (b *SQLBackend) WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return dbx.WithRetryTx(ctx, b.db, nil, txAttempts, b.repomanager.Retryable, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, Repos{Documents: b.repomanager.Documents(tx), Shares: b.repomanager.Shares(tx)})
	})
}

// StaticBackend serves fixed repositories (memory, S3). WithTx gives no
// isolation beyond what each repository call guarantees on its own.
type StaticBackend struct {
	repos Repos
}

func NewStaticBackend(docs documents.Repository, sh shares.Repository) *StaticBackend {
	return &StaticBackend{repos: Repos{Documents: docs, Shares: sh}}
}

func (b *StaticBackend) Repos() Repos { return b.repos }

func (b *StaticBackend) WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return fn(ctx, b.repos)
}
