// Package notifications stores local notifications per wallet in SQLite.
package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/dbx"
)

type Repository interface {
	Add(ctx context.Context, owner string, n models.Notification) error
	// List returns owner's notifications, newest first.
	List(ctx context.Context, owner string) ([]models.Notification, error)
	// MarkRead reports whether the notification changed from unread to read.
	MarkRead(ctx context.Context, owner, id string) (bool, error)
	MarkAllRead(ctx context.Context, owner string) error
	UnreadCount(ctx context.Context, owner string) (int, error)
	Delete(ctx context.Context, owner, id string) error
	Clear(ctx context.Context, owner string) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, owner string, n models.Notification) error {
	query := `INSERT INTO notifications (id, owner, type, title, message, share_id, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, n.ID, owner, string(n.Type), n.Title, n.Message, n.ShareID, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, owner string) ([]models.Notification, error) {
	query := `SELECT id, type, title, message, share_id, read, created_at FROM notifications
		WHERE owner = ? ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.ShareID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(typ)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, owner, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE owner = ? AND id = ? AND read = 0`, owner, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE owner = ? AND id = ?`, owner, id).Scan(&exists); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, common.ErrorNotFound
	}
	return false, nil
}

func (r *SQLiteRepository) MarkAllRead(ctx context.Context, owner string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE owner = ?`, owner)
	return err
}

func (r *SQLiteRepository) UnreadCount(ctx context.Context, owner string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE owner = ? AND read = 0`, owner).Scan(&n)
	return n, err
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE owner = ? AND id = ?`, owner, id)
	return err
}

func (r *SQLiteRepository) Clear(ctx context.Context, owner string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE owner = ?`, owner)
	return err
}
