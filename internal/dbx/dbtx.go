// Package dbx holds the database handle shared by the SQL repositories and
// the transaction helpers the store services run their read-modify-write
// sequences in.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DBTX is what a repository needs from a handle. *sql.DB and *sql.Tx both
// satisfy it, so one repository type serves both plain and transactional use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is one unit of work against a transaction handle.
type TxFunc func(ctx context.Context, tx DBTX) error

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back when fn fails or panics; the panic is re-raised after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE shares SET status=$1 WHERE id=$2", status, id)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}

// retryInterval is the first pause between attempts of WithRetryTx.
var retryInterval = 20 * time.Millisecond

// WithRetryTx is WithTx that starts a fresh transaction when retryable
// reports the failure as a conflict (serialization failure, deadlock), up to
// attempts tries in total. Other failures are returned at once. A nil
// retryable never retries.
func WithRetryTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, attempts uint, retryable func(error) bool, fn TxFunc) error {
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := WithTx(ctx, db, opts, fn)
		if err != nil && (retryable == nil || !retryable(err)) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
	return err
}
