package client

import (
	"context"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
)

// DocumentStore holds encrypted envelopes. Documents are never removed;
// Tombstone overwrites them with sentinels.
type DocumentStore interface {
	QueryAll(ctx context.Context, owner string) ([]models.Envelope, error)
	Create(ctx context.Context, owner string, env models.Envelope) (string, error)
	Update(ctx context.Context, remoteID string, p models.Patch) error
	Tombstone(ctx context.Context, remoteID string) error
	// Search matches a case-insensitive substring of the plaintext
	// service name.
	Search(ctx context.Context, owner, term string) ([]models.Envelope, error)
}

// Mailbox carries share requests between wallets.
type Mailbox interface {
	PutShare(ctx context.Context, r models.ShareRequest) (string, error)
	GetShare(ctx context.Context, id string) (models.ShareRequest, error)
	ListShares(ctx context.Context, toHash, fromHash string) ([]models.ShareRequest, error)
	// UpdateShareStatus resolves a pending request. Expired requests fail
	// with common.ErrShareExpired, resolved ones with common.ErrShareFinal.
	UpdateShareStatus(ctx context.Context, id string, status models.ShareStatus) (models.ShareRequest, error)
}

// Remote is everything a client session needs from the store.
type Remote interface {
	DocumentStore
	Mailbox
	Ping(ctx context.Context) error
	Close() error
}
