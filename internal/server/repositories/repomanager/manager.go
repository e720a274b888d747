package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cryptopass/internal/dbx"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/documents"
	"github.com/dmitrijs2005/cryptopass/internal/server/repositories/shares"
)

// RepositoryManager vends SQL-backed repositories bound to a DBTX.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
	Shares(db dbx.DBTX) shares.Repository
	// Retryable reports whether a failed transaction may succeed when run
	// again from the start.
	Retryable(err error) bool
}
