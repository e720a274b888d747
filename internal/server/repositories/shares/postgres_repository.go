package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/dbx"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shareColumns = `id, from_wallet_hash, to_wallet_hash, sender_address, encrypted_payload, iv, shared_key, tx_hash, title, status, created_at, expires_at`

func (r *PostgresRepository) Create(ctx context.Context, s *models.Share) error {
	query := `INSERT INTO shares (` + shareColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.FromWalletHash, s.ToWalletHash, s.SenderAddress, s.EncryptedPayload, s.IV,
		s.SharedKey, s.TxHash, s.Title, s.Status, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanShare(row interface{ Scan(...any) error }, s *models.Share) error {
	return row.Scan(&s.ID, &s.FromWalletHash, &s.ToWalletHash, &s.SenderAddress, &s.EncryptedPayload, &s.IV,
		&s.SharedKey, &s.TxHash, &s.Title, &s.Status, &s.CreatedAt, &s.ExpiresAt)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE id=$1`

	s := &models.Share{}
	if err := scanShare(r.db.QueryRowContext(ctx, query, id), s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select share: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context, toHash, fromHash string) ([]*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares
		WHERE ($1 = '' OR to_wallet_hash=$1) AND ($2 = '' OR from_wallet_hash=$2)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, toHash, fromHash)
	if err != nil {
		return nil, fmt.Errorf("failed to select shares: %w", err)
	}
	defer rows.Close()

	var result []*models.Share
	for rows.Next() {
		var s models.Share
		if err := scanShare(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Transition(ctx context.Context, id, from, to string) error {
	query := `UPDATE shares SET status=$3 WHERE id=$1 AND status=$2`

	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrShareFinal
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
