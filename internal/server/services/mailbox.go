package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/server/metrics"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

// DefaultShareTTL applies when a request arrives without an expiry.
const DefaultShareTTL = 7 * 24 * time.Hour

var ErrInvalidShare = errors.New("invalid share request")

// MailboxService carries share requests from sender to recipient. Identities
// are SHA-256 hashes of lower-cased wallet addresses.
type MailboxService struct {
	backend Backend
	metrics *metrics.Metrics
	logger  logging.Logger
	now     func() time.Time
}

func NewMailboxService(b Backend, m *metrics.Metrics, l logging.Logger) *MailboxService {
	return &MailboxService{
		backend: b,
		metrics: m,
		logger:  l.With("module", "mailbox"),
		now:     time.Now,
	}
}

// Put stores a new pending request and returns its id.
func (s *MailboxService) Put(ctx context.Context, sh *models.Share) (_ string, err error) {
	defer s.metrics.Track("put_share", time.Now(), &err)

	if sh == nil || sh.ToWalletHash == "" || sh.FromWalletHash == "" || sh.EncryptedPayload == "" {
		return "", fmt.Errorf("%w: sender, recipient and payload are required", ErrInvalidShare)
	}

	v := *sh
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.Status = models.ShareStatusPending
	now := s.now()
	if v.CreatedAt == 0 {
		v.CreatedAt = now.UnixMilli()
	}
	if v.ExpiresAt == 0 {
		v.ExpiresAt = time.UnixMilli(v.CreatedAt).Add(DefaultShareTTL).UnixMilli()
	}

	if err := s.backend.Repos().Shares.Create(ctx, &v); err != nil {
		return "", fmt.Errorf("error storing share: %w", err)
	}
	s.logger.Info(ctx, "share stored", "share_id", v.ID)
	return v.ID, nil
}

// Get returns the request with expiry applied to the view.
func (s *MailboxService) Get(ctx context.Context, id string) (_ *models.Share, err error) {
	defer s.metrics.Track("get_share", time.Now(), &err)

	sh, err := s.backend.Repos().Shares.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.observe(sh), nil
}

// List selects by recipient and/or sender hash. At least one is required.
func (s *MailboxService) List(ctx context.Context, toHash, fromHash string) (_ []*models.Share, err error) {
	defer s.metrics.Track("list_shares", time.Now(), &err)

	if toHash == "" && fromHash == "" {
		return nil, fmt.Errorf("%w: recipient or sender hash is required", ErrInvalidShare)
	}
	list, err := s.backend.Repos().Shares.List(ctx, toHash, fromHash)
	if err != nil {
		return nil, fmt.Errorf("error listing shares: %w", err)
	}
	for i := range list {
		list[i] = s.observe(list[i])
	}
	return list, nil
}

// UpdateStatus resolves a pending request. Expired requests fail with
// common.ErrShareExpired whatever their stored status, and a pending one is
// persisted as expired on the way. Other resolved requests fail with
// common.ErrShareFinal.
func (s *MailboxService) UpdateStatus(ctx context.Context, id, status string) (_ *models.Share, err error) {
	defer s.metrics.Track("update_share_status", time.Now(), &err)

	if status != models.ShareStatusAccepted && status != models.ShareStatusRejected {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidShare, status)
	}

	var out *models.Share
	err = s.backend.WithTx(ctx, func(ctx context.Context, r Repos) error {
		sh, err := r.Shares.Get(ctx, id)
		if err != nil {
			return err
		}

		if s.expired(sh) {
			return common.ErrShareExpired
		}
		if sh.Status != models.ShareStatusPending {
			return common.ErrShareFinal
		}

		if err := r.Shares.Transition(ctx, id, models.ShareStatusPending, status); err != nil {
			return err
		}
		sh.Status = status
		out = sh
		return nil
	})
	if err != nil {
		// Outside the transaction: a failed one is rolled back.
		if errors.Is(err, common.ErrShareExpired) {
			s.persistExpired(ctx, id)
		}
		return nil, err
	}

	s.logger.Info(ctx, "share resolved", "share_id", id, "status", status)
	return out, nil
}

func (s *MailboxService) persistExpired(ctx context.Context, id string) {
	err := s.backend.Repos().Shares.Transition(ctx, id, models.ShareStatusPending, models.ShareStatusExpired)
	if err != nil && !errors.Is(err, common.ErrShareFinal) {
		s.logger.Warn(ctx, "failed to persist share expiry", "share_id", id, "error", err)
	}
}

func (s *MailboxService) expired(sh *models.Share) bool {
	return sh.ExpiresAt > 0 && s.now().UnixMilli() > sh.ExpiresAt
}

func (s *MailboxService) observe(sh *models.Share) *models.Share {
	if sh.Status == models.ShareStatusPending && s.expired(sh) {
		v := *sh
		v.Status = models.ShareStatusExpired
		return &v
	}
	return sh
}
