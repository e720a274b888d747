package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession(t *testing.T) {
	s := openStore(t)

	_, err := s.Session()
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.SaveSession(Session{Address: "0xabc", DID: "did:key:z1"}))
	require.NoError(t, s.MarkSynced(time.UnixMilli(42)))

	got, err := s.Session()
	require.NoError(t, err)
	assert.Equal(t, Session{Address: "0xabc", DID: "did:key:z1", LastSync: 42}, got)
}

func TestVaultSnapshot(t *testing.T) {
	s := openStore(t)

	empty, err := s.Vault()
	require.NoError(t, err)
	assert.Empty(t, empty)

	now := time.UnixMilli(1000)
	items := []models.Item{
		models.NewItem("mail", models.Login{Username: "u", Password: "p"}, now),
		models.NewItem("memo", models.Note{Content: "hello"}, now),
	}
	require.NoError(t, s.SaveVault(items))

	got, err := s.Vault()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID)
	assert.Equal(t, models.Login{Username: "u", Password: "p"}, got[0].Payload)
	assert.Equal(t, models.Note{Content: "hello"}, got[1].Payload)

	require.NoError(t, s.SaveVault(items[:1]))
	got, _ = s.Vault()
	assert.Len(t, got, 1, "snapshot is replaced, not merged")
}

func TestClear(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.SaveSession(Session{Address: "0xabc"}))
	require.NoError(t, s.SaveVault([]models.Item{models.NewItem("memo", models.Note{Content: "x"}, time.Now())}))

	require.NoError(t, s.Clear())

	_, err := s.Session()
	assert.ErrorIs(t, err, common.ErrorNotFound)
	items, err := s.Vault()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSignatureKeyring(t *testing.T) {
	keyring.MockInit()

	_, err := Signature("0xABC")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, SaveSignature("0xABC", "0xsig"))
	sig, err := Signature("0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xsig", sig)

	require.NoError(t, DeleteSignature("0xabc"))
	require.NoError(t, DeleteSignature("0xabc"))
	_, err = Signature("0xabc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
