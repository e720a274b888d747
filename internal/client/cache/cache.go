// Package cache is the local persisted state of a client context: the
// signed-in session and the last vault snapshot in a bbolt file, and the
// encryption signature in the OS keyring. Nothing here is authoritative;
// the remote store wins on conflict.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/zalando/go-keyring"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	SessionBucket = []byte("session")
	VaultBucket   = []byte("vault")
)

// Keys
var (
	sessionKey  = []byte("current")
	snapshotKey = []byte("snapshot")
)

// Session is the non-secret part of a login.
type Session struct {
	Address  string `json:"address"`
	DID      string `json:"did"`
	LastSync int64  `json:"lastSync,omitempty"`
}

// Store wraps the bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the cache file and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{SessionBucket, VaultBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveSession(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(SessionBucket).Put(sessionKey, data)
	})
}

// Session returns common.ErrorNotFound when nobody is signed in.
func (s *Store) Session() (Session, error) {
	var sess Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(SessionBucket).Get(sessionKey)
		if data == nil {
			return common.ErrorNotFound
		}
		return json.Unmarshal(data, &sess)
	})
	return sess, err
}

// MarkSynced stamps the session with the time of the last snapshot.
func (s *Store) MarkSynced(at time.Time) error {
	sess, err := s.Session()
	if err != nil {
		return err
	}
	sess.LastSync = at.UnixMilli()
	return s.SaveSession(sess)
}

// SaveVault overwrites the cached snapshot.
func (s *Store) SaveVault(items []models.Item) error {
	raw := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := models.Encode(it)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", it.ID, err)
		}
		raw = append(raw, b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(VaultBucket).Put(snapshotKey, data)
	})
}

// Vault returns the cached snapshot, empty if there is none.
func (s *Store) Vault() ([]models.Item, error) {
	var raw []json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(VaultBucket).Get(snapshotKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &raw)
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		it, err := models.Decode(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Clear wipes the session and the snapshot.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(SessionBucket).Delete(sessionKey); err != nil {
			return err
		}
		return tx.Bucket(VaultBucket).Delete(snapshotKey)
	})
}

// SaveSignature keeps the encryption signature for address in the OS
// keyring, so the key can be re-derived without asking the wallet.
func SaveSignature(address, signature string) error {
	return keyring.Set(common.ServiceName, strings.ToLower(address), signature)
}

// Signature returns common.ErrorNotFound when nothing is stored.
func Signature(address string) (string, error) {
	sig, err := keyring.Get(common.ServiceName, strings.ToLower(address))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", common.ErrorNotFound
	}
	return sig, err
}

// DeleteSignature is a no-op when nothing is stored.
func DeleteSignature(address string) error {
	err := keyring.Delete(common.ServiceName, strings.ToLower(address))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
