package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

func pendingShare(from, to string) *models.Share {
	return &models.Share{
		FromWalletHash:   from,
		ToWalletHash:     to,
		SenderAddress:    "0x1111111111111111111111111111111111111111",
		EncryptedPayload: "ct",
		IV:               "iv",
		Title:            "GitHub",
		TxHash:           "dev-mode-no-payment",
	}
}

func TestMailbox_PutDefaults(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.UnixMilli(1_000)}
	s := newMailboxService(c)

	id, err := s.Put(ctx, pendingShare("a", "b"))
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusPending, got.Status)
	assert.Equal(t, int64(1_000), got.CreatedAt)
	assert.Equal(t, int64(1_000)+DefaultShareTTL.Milliseconds(), got.ExpiresAt)
}

func TestMailbox_PutValidates(t *testing.T) {
	s := newMailboxService(&clock{t: time.Now()})
	_, err := s.Put(context.Background(), pendingShare("a", ""))
	assert.ErrorIs(t, err, ErrInvalidShare)
}

func TestMailbox_ListByDirection(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.UnixMilli(1_000)}
	s := newMailboxService(c)

	_, err := s.Put(ctx, pendingShare("alice", "bob"))
	require.NoError(t, err)
	c.t = time.UnixMilli(2_000)
	_, err = s.Put(ctx, pendingShare("carol", "bob"))
	require.NoError(t, err)

	in, err := s.List(ctx, "bob", "")
	require.NoError(t, err)
	require.Len(t, in, 2)
	assert.Equal(t, "carol", in[0].FromWalletHash, "newest first")

	out, err := s.List(ctx, "", "alice")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = s.List(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidShare)
}

func TestMailbox_ResolveOnce(t *testing.T) {
	ctx := context.Background()
	s := newMailboxService(&clock{t: time.UnixMilli(1_000)})

	id, err := s.Put(ctx, pendingShare("a", "b"))
	require.NoError(t, err)

	got, err := s.UpdateStatus(ctx, id, models.ShareStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusAccepted, got.Status)

	_, err = s.UpdateStatus(ctx, id, models.ShareStatusRejected)
	assert.ErrorIs(t, err, common.ErrShareFinal)
}

func TestMailbox_ExpiredIsRefusedAndPersisted(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.UnixMilli(1_000)}
	s := newMailboxService(c)

	id, err := s.Put(ctx, pendingShare("a", "b"))
	require.NoError(t, err)

	c.t = c.t.Add(DefaultShareTTL + time.Second)

	view, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusExpired, view.Status)

	for _, status := range []string{models.ShareStatusAccepted, models.ShareStatusRejected} {
		_, err = s.UpdateStatus(ctx, id, status)
		assert.ErrorIs(t, err, common.ErrShareExpired)
	}

	stored, err := s.backend.Repos().Shares.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusExpired, stored.Status)
}

func TestMailbox_ExpiredAfterAcceptStillReportsExpired(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.UnixMilli(1_000)}
	s := newMailboxService(c)

	id, err := s.Put(ctx, pendingShare("a", "b"))
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, id, models.ShareStatusAccepted)
	require.NoError(t, err)

	c.t = c.t.Add(DefaultShareTTL + time.Second)
	_, err = s.UpdateStatus(ctx, id, models.ShareStatusRejected)
	assert.ErrorIs(t, err, common.ErrShareExpired)

	stored, _ := s.backend.Repos().Shares.Get(ctx, id)
	assert.Equal(t, models.ShareStatusAccepted, stored.Status)
}

func TestMailbox_UpdateStatusValidates(t *testing.T) {
	s := newMailboxService(&clock{t: time.Now()})
	_, err := s.UpdateStatus(context.Background(), "x", models.ShareStatusPending)
	assert.ErrorIs(t, err, ErrInvalidShare)

	_, err = s.UpdateStatus(context.Background(), "missing", models.ShareStatusAccepted)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
