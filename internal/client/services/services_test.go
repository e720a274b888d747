package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cryptopass/internal/client/client"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
)

const owner = "did:key:zOwner"

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func login(id, title string) models.Item {
	it := models.NewItem(title, models.Login{Username: "user-" + id, Password: "pw-" + id}, time.UnixMilli(1000))
	it.ID = id
	return it
}

func sealed(t *testing.T, it models.Item, key cryptox.Key) models.Envelope {
	t.Helper()
	env, err := models.SealItem(it, key)
	require.NoError(t, err)
	return env
}
