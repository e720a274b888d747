package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/common"
)

var ErrChallengeNotFound = errors.New("challenge not found or expired")

type challenge struct {
	nonce     string
	expiresAt time.Time
}

// ChallengeStore hands out one-time login nonces per DID. A new challenge
// for the same DID replaces the previous one.
type ChallengeStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]challenge
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{ttl: ttl, now: time.Now, items: make(map[string]challenge)}
}

// Issue creates a nonce for did.
func (s *ChallengeStore) Issue(did string) (string, time.Time, error) {
	nonce, err := common.MakeRandHexString(32)
	if err != nil {
		return "", time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	expiresAt := s.now().Add(s.ttl)
	s.items[did] = challenge{nonce: nonce, expiresAt: expiresAt}
	return nonce, expiresAt, nil
}

// Consume checks nonce for did and removes it, so each nonce logs in once.
func (s *ChallengeStore) Consume(did, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[did]
	if !ok {
		return ErrChallengeNotFound
	}
	delete(s.items, did)

	if s.now().After(c.expiresAt) {
		return ErrChallengeNotFound
	}
	if subtle.ConstantTimeCompare([]byte(c.nonce), []byte(nonce)) != 1 {
		return ErrChallengeNotFound
	}
	return nil
}

func (s *ChallengeStore) sweepLocked() {
	now := s.now()
	for did, c := range s.items {
		if now.After(c.expiresAt) {
			delete(s.items, did)
		}
	}
}
