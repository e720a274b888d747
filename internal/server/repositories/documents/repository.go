// Package documents persists encrypted vault documents. Documents are
// created and overwritten but never removed; deletion is a tombstone
// written through Update.
package documents

import (
	"context"

	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	// ListByOwner returns every document of owner, tombstones included.
	ListByOwner(ctx context.Context, owner string) ([]*models.Document, error)
	// SearchByServiceName matches a case-insensitive substring of the
	// plaintext service name.
	SearchByServiceName(ctx context.Context, owner, term string) ([]*models.Document, error)
	// Get returns common.ErrorNotFound for unknown ids or foreign owners.
	Get(ctx context.Context, owner, remoteID string) (*models.Document, error)
	// Update overwrites the mutable fields of an existing document.
	Update(ctx context.Context, doc *models.Document) error
}
