package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

func env(id, service string) models.Envelope {
	return models.Envelope{ID: id, ItemType: models.ItemTypeLogin, ServiceName: service, EncryptedData: "ct", IV: "iv", UpdatedAt: 1}
}

func TestMemoryStore_DocumentsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	rid, err := m.Create(ctx, "alice", env("e1", "GitHub"))
	require.NoError(t, err)
	_, err = m.Create(ctx, "bob", env("e2", "Bank"))
	require.NoError(t, err)

	got, err := m.QueryAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rid, got[0].RemoteID)
	assert.Equal(t, "e1", got[0].ID)

	found, err := m.Search(ctx, "bob", "BAN")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMemoryStore_UpdateAndTombstone(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return time.UnixMilli(500) })

	rid, err := m.Create(ctx, "o", env("e1", "GitHub"))
	require.NoError(t, err)

	p := env("e1", "GitLab").Patch()
	p.UpdatedAt = 10
	require.NoError(t, m.Update(ctx, rid, p))
	doc, _ := m.Document(rid)
	assert.Equal(t, "GitLab", doc.ServiceName)

	require.NoError(t, m.Tombstone(ctx, rid))
	doc, _ = m.Document(rid)
	assert.True(t, doc.IsTombstone())
	assert.Equal(t, int64(500), doc.UpdatedAt)

	assert.ErrorIs(t, m.Update(ctx, "missing", p), common.ErrorNotFound)
	assert.ErrorIs(t, m.Tombstone(ctx, "missing"), common.ErrorNotFound)
}

func TestMemoryStore_FaultHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	boom := errors.New("boom")
	m.Fault = func(op string) error {
		if op == OpCreate {
			return boom
		}
		return nil
	}

	_, err := m.Create(ctx, "o", env("e1", "x"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Calls(OpCreate))

	got, err := m.QueryAll(ctx, "o")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_ShareLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_000)
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return now })

	id, err := m.PutShare(ctx, models.ShareRequest{FromWalletHash: "a", ToWalletHash: "b", CreatedAt: 1_000, ExpiresAt: 2_000})
	require.NoError(t, err)

	in, err := m.ListShares(ctx, "b", "")
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, models.ShareStatusPending, in[0].Status)

	r, err := m.UpdateShareStatus(ctx, id, models.ShareStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusAccepted, r.Status)

	_, err = m.UpdateShareStatus(ctx, id, models.ShareStatusRejected)
	assert.ErrorIs(t, err, common.ErrShareFinal)
}

func TestMemoryStore_ExpiredShare(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_000)
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return now })

	id, err := m.PutShare(ctx, models.ShareRequest{ToWalletHash: "b", ExpiresAt: 2_000})
	require.NoError(t, err)

	now = time.UnixMilli(3_000)
	got, err := m.GetShare(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusExpired, got.Status)

	_, err = m.UpdateShareStatus(ctx, id, models.ShareStatusAccepted)
	assert.ErrorIs(t, err, common.ErrShareExpired)
	_, err = m.UpdateShareStatus(ctx, id, models.ShareStatusRejected)
	assert.ErrorIs(t, err, common.ErrShareExpired)
}
