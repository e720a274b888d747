package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

var ErrInvalidDocument = errors.New("invalid document")

// DocumentService stores encrypted documents per owner DID. Documents are
// never removed: Tombstone overwrites them with sentinels.
type DocumentService struct {
	backend Backend
	metrics *metrics.Metrics
	logger  logging.Logger
	now     func() time.Time
}

func NewDocumentService(b Backend, m *metrics.Metrics, l logging.Logger) *DocumentService {
	return &DocumentService{
		backend: b,
		metrics: m,
		logger:  l.With("module", "documents"),
		now:     time.Now,
	}
}

func (s *DocumentService) nowMillis() int64 {
	return s.now().UnixMilli()
}

// Create stores doc under owner and returns the new remote id.
func (s *DocumentService) Create(ctx context.Context, owner string, doc *models.Document) (_ string, err error) {
	defer s.metrics.Track("create", time.Now(), &err)

	if doc == nil || doc.EntryID == "" {
		return "", fmt.Errorf("%w: entry id is required", ErrInvalidDocument)
	}

	d := *doc
	d.RemoteID = uuid.NewString()
	d.Owner = owner
	now := s.nowMillis()
	if d.CreatedAt == 0 {
		d.CreatedAt = now
	}
	if d.UpdatedAt == 0 {
		d.UpdatedAt = d.CreatedAt
	}

	if err := s.backend.Repos().Documents.Create(ctx, &d); err != nil {
		return "", fmt.Errorf("error creating document: %w", err)
	}
	s.metrics.DocumentCreated()
	s.logger.Debug(ctx, "document created", "remote_id", d.RemoteID)
	return d.RemoteID, nil
}

// QueryAll returns all documents of owner, tombstones included.
func (s *DocumentService) QueryAll(ctx context.Context, owner string) (_ []*models.Document, err error) {
	defer s.metrics.Track("query_all", time.Now(), &err)

	docs, err := s.backend.Repos().Documents.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

// Search matches term against the plaintext service name.
func (s *DocumentService) Search(ctx context.Context, owner, term string) (_ []*models.Document, err error) {
	defer s.metrics.Track("search", time.Now(), &err)

	docs, err := s.backend.Repos().Documents.SearchByServiceName(ctx, owner, term)
	if err != nil {
		return nil, fmt.Errorf("error searching documents: %w", err)
	}
	return docs, nil
}

// Update overwrites the mutable fields of remoteID with patch. EntryID,
// Owner and CreatedAt never change.
func (s *DocumentService) Update(ctx context.Context, owner, remoteID string, patch *models.Document) (err error) {
	defer s.metrics.Track("update", time.Now(), &err)

	if patch == nil {
		return fmt.Errorf("%w: empty patch", ErrInvalidDocument)
	}

	return s.backend.WithTx(ctx, func(ctx context.Context, r Repos) error {
		doc, err := r.Documents.Get(ctx, owner, remoteID)
		if err != nil {
			return err
		}

		doc.ItemType = patch.ItemType
		doc.ServiceName = patch.ServiceName
		doc.EncryptedData = patch.EncryptedData
		doc.IV = patch.IV
		doc.Category = patch.Category
		doc.Favorite = patch.Favorite
		doc.UpdatedAt = patch.UpdatedAt
		if doc.UpdatedAt == 0 {
			doc.UpdatedAt = s.nowMillis()
		}

		return r.Documents.Update(ctx, doc)
	})
}

// Tombstone marks remoteID as deleted. Repeating it only bumps UpdatedAt.
func (s *DocumentService) Tombstone(ctx context.Context, owner, remoteID string) (err error) {
	defer s.metrics.Track("tombstone", time.Now(), &err)

	return s.backend.WithTx(ctx, func(ctx context.Context, r Repos) error {
		doc, err := r.Documents.Get(ctx, owner, remoteID)
		if err != nil {
			return err
		}
		doc.Tombstone(s.nowMillis())
		if err := r.Documents.Update(ctx, doc); err != nil {
			return err
		}
		s.logger.Debug(ctx, "document tombstoned", "remote_id", remoteID)
		return nil
	})
}
