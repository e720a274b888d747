// Package shares persists share requests for the mailbox.
package shares

import (
	"context"

	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Share) error
	// Get returns common.ErrorNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.Share, error)
	// List selects by recipient hash, sender hash, or both when both are set.
	List(ctx context.Context, toHash, fromHash string) ([]*models.Share, error)
	// Transition moves a share from one status to another. It fails with
	// common.ErrShareFinal when the stored status is no longer from.
	Transition(ctx context.Context, id, from, to string) error
}
