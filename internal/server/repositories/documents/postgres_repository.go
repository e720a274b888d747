package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/dbx"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

// PostgresRepository implements document storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `remote_id, owner, entry_id, item_type, service_name, encrypted_data, iv, category, favorite, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (` + selectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	res, err := r.db.ExecContext(ctx, query,
		doc.RemoteID, doc.Owner, doc.EntryID, doc.ItemType, doc.ServiceName, doc.EncryptedData, doc.IV,
		doc.Category, doc.Favorite, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		WHERE owner=$1
		ORDER BY created_at, remote_id`
	return r.query(ctx, query, owner)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) SearchByServiceName(ctx context.Context, owner, term string) ([]*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		WHERE owner=$1 AND service_name ILIKE '%' || $2 || '%'
		ORDER BY created_at, remote_id`
	return r.query(ctx, query, owner, likeEscaper.Replace(term))
}

func (r *PostgresRepository) Get(ctx context.Context, owner, remoteID string) (*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents WHERE owner=$1 AND remote_id=$2`

	doc := &models.Document{}
	err := scanDocument(r.db.QueryRowContext(ctx, query, owner, remoteID), doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select document: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents SET
			item_type=$3, service_name=$4, encrypted_data=$5, iv=$6,
			category=$7, favorite=$8, updated_at=$9
		WHERE owner=$1 AND remote_id=$2
	`
	res, err := r.db.ExecContext(ctx, query,
		doc.Owner, doc.RemoteID, doc.ItemType, doc.ServiceName, doc.EncryptedData, doc.IV,
		doc.Category, doc.Favorite, doc.UpdatedAt)
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
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner, d *models.Document) error {
	return s.Scan(&d.RemoteID, &d.Owner, &d.EntryID, &d.ItemType, &d.ServiceName, &d.EncryptedData, &d.IV,
		&d.Category, &d.Favorite, &d.CreatedAt, &d.UpdatedAt)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var item models.Document
		if err := scanDocument(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
