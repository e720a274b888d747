package shares

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	shares map[string]*models.Share
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{shares: make(map[string]*models.Share)}
}

func (r *MemoryRepository) Create(_ context.Context, s *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shares[s.ID]; ok {
		return fmt.Errorf("share %s already exists", s.ID)
	}
	cp := *s
	r.shares[s.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shares[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, toHash, fromHash string) ([]*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Share
	for _, s := range r.shares {
		if toHash != "" && s.ToWalletHash != toHash {
			continue
		}
		if fromHash != "" && s.FromWalletHash != fromHash {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *MemoryRepository) Transition(_ context.Context, id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok || s.Status != from {
		return common.ErrShareFinal
	}
	s.Status = to
	return nil
}
