// Package shares keeps a local SQLite copy of the share requests this
// wallet sent or received, so they can be listed while the store is
// unreachable.
package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/dbx"
)

type Repository interface {
	// Upsert inserts r or overwrites the stored copy with the same id.
	Upsert(ctx context.Context, r models.ShareRequest) error
	// Get returns common.ErrorNotFound for unknown ids.
	Get(ctx context.Context, id string) (models.ShareRequest, error)
	// List selects by recipient hash, sender hash, or both. Newest first.
	List(ctx context.Context, toHash, fromHash string) ([]models.ShareRequest, error)
	SetStatus(ctx context.Context, id string, status models.ShareStatus) error
}

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, from_wallet_hash, to_wallet_hash, sender_address, encrypted_payload, iv,
	shared_key, tx_hash, title, status, created_at, expires_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, s models.ShareRequest) error {
	query := `INSERT INTO share_requests (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			shared_key = excluded.shared_key,
			tx_hash = excluded.tx_hash,
			expires_at = excluded.expires_at`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.FromWalletHash, s.ToWalletHash, s.SenderAddress, s.EncryptedPayload, s.IV,
		s.SharedKey, s.TxHash, s.Title, string(s.Status), s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert share request: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.ShareRequest, error) {
	query := `SELECT ` + columns + ` FROM share_requests WHERE id = ?`

	s, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShareRequest{}, common.ErrorNotFound
		}
		return models.ShareRequest{}, fmt.Errorf("failed to select share request: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) List(ctx context.Context, toHash, fromHash string) ([]models.ShareRequest, error) {
	query := `SELECT ` + columns + ` FROM share_requests
		WHERE (? = '' OR to_wallet_hash = ?) AND (? = '' OR from_wallet_hash = ?)
		ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, toHash, toHash, fromHash, fromHash)
	if err != nil {
		return nil, fmt.Errorf("failed to select share requests: %w", err)
	}
	defer rows.Close()

	var out []models.ShareRequest
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.ShareStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE share_requests SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update share request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (models.ShareRequest, error) {
	var r models.ShareRequest
	var status string
	err := s.Scan(&r.ID, &r.FromWalletHash, &r.ToWalletHash, &r.SenderAddress, &r.EncryptedPayload, &r.IV,
		&r.SharedKey, &r.TxHash, &r.Title, &status, &r.CreatedAt, &r.ExpiresAt)
	r.Status = models.ShareStatus(status)
	return r, err
}
