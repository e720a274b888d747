package documents

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(owner, remoteID, service string, createdAt int64) *models.Document {
	return &models.Document{
		RemoteID:      remoteID,
		Owner:         owner,
		EntryID:       "entry-" + remoteID,
		ItemType:      "login",
		ServiceName:   service,
		EncryptedData: "ct-" + remoteID,
		IV:            "iv-" + remoteID,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// testRepositoryContract runs the behaviour every backend must share.
func testRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, doc("alice", "r2", "GitHub", 20)))
	require.NoError(t, repo.Create(ctx, doc("alice", "r1", "Bank of Latvia", 10)))
	require.NoError(t, repo.Create(ctx, doc("bob", "r3", "GitLab", 5)))

	t.Run("list is owner scoped and ordered", func(t *testing.T) {
		got, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r1", got[0].RemoteID)
		assert.Equal(t, "r2", got[1].RemoteID)
		assert.Equal(t, "entry-r1", got[0].EntryID)
	})

	t.Run("unknown owner", func(t *testing.T) {
		got, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("search is case insensitive substring", func(t *testing.T) {
		got, err := repo.SearchByServiceName(ctx, "alice", "git")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r2", got[0].RemoteID)

		got, err = repo.SearchByServiceName(ctx, "alice", "LATVIA")
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("get respects owner", func(t *testing.T) {
		d, err := repo.Get(ctx, "alice", "r1")
		require.NoError(t, err)
		assert.Equal(t, "Bank of Latvia", d.ServiceName)

		_, err = repo.Get(ctx, "bob", "r1")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.Get(ctx, "alice", "missing")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("update overwrites mutable fields only", func(t *testing.T) {
		upd := doc("alice", "r1", "Bank", 999)
		upd.EntryID = "ignored"
		upd.EncryptedData = "new-ct"
		upd.Favorite = true
		require.NoError(t, repo.Update(ctx, upd))

		d, err := repo.Get(ctx, "alice", "r1")
		require.NoError(t, err)
		assert.Equal(t, "Bank", d.ServiceName)
		assert.Equal(t, "new-ct", d.EncryptedData)
		assert.True(t, d.Favorite)
		assert.Equal(t, int64(999), d.UpdatedAt)
		assert.Equal(t, int64(10), d.CreatedAt)
		assert.Equal(t, "entry-r1", d.EntryID)
	})

	t.Run("update of foreign document", func(t *testing.T) {
		err := repo.Update(ctx, doc("bob", "r1", "x", 1))
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestMemoryRepository_Contract(t *testing.T) {
	testRepositoryContract(t, NewMemoryRepository())
}

func TestMemoryRepository_DuplicateCreate(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), doc("a", "r1", "x", 1)))
	require.Error(t, repo.Create(context.Background(), doc("a", "r1", "x", 1)))
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), doc("a", "r1", "x", 1)))

	got, err := repo.Get(context.Background(), "a", "r1")
	require.NoError(t, err)
	got.ServiceName = "mutated"

	again, err := repo.Get(context.Background(), "a", "r1")
	require.NoError(t, err)
	assert.Equal(t, "x", again.ServiceName)
}

func TestMemoryRepository_OrdersByCreationThenID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Create(ctx, doc("alice", "late", "GitHub", 20)))
	require.NoError(t, repo.Create(ctx, doc("alice", "early", "GitLab", 10)))
	require.NoError(t, repo.Create(ctx, doc("alice", "b-tie", "Git tie", 15)))
	require.NoError(t, repo.Create(ctx, doc("alice", "a-tie", "Git tie", 15)))

	ids := func(docs []*models.Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.RemoteID)
		}
		return out
	}

	got, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "a-tie", "b-tie", "late"}, ids(got))

	got, err = repo.SearchByServiceName(ctx, "alice", "git")
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "a-tie", "b-tie", "late"}, ids(got))
}
