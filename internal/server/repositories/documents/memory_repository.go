package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

// MemoryRepository keeps documents in process memory, in creation order.
type MemoryRepository struct {
	mu     sync.RWMutex
	docs   map[string]*models.Document
	byUser map[string][]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		docs:   make(map[string]*models.Document),
		byUser: make(map[string][]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.RemoteID]; ok {
		return fmt.Errorf("document %s already exists", doc.RemoteID)
	}
	cp := *doc
	r.docs[doc.RemoteID] = &cp
	r.byUser[doc.Owner] = append(r.byUser[doc.Owner], doc.RemoteID)
	return nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]*models.Document, error) {
	return r.filter(owner, func(*models.Document) bool { return true }), nil
}

func (r *MemoryRepository) SearchByServiceName(_ context.Context, owner, term string) ([]*models.Document, error) {
	term = strings.ToLower(term)
	return r.filter(owner, func(d *models.Document) bool {
		return strings.Contains(strings.ToLower(d.ServiceName), term)
	}), nil
}

func (r *MemoryRepository) Get(_ context.Context, owner, remoteID string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[remoteID]
	if !ok || d.Owner != owner {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *MemoryRepository) Update(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[doc.RemoteID]
	if !ok || d.Owner != doc.Owner {
		return common.ErrorNotFound
	}
	d.ItemType = doc.ItemType
	d.ServiceName = doc.ServiceName
	d.EncryptedData = doc.EncryptedData
	d.IV = doc.IV
	d.Category = doc.Category
	d.Favorite = doc.Favorite
	d.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MemoryRepository) filter(owner string, keep func(*models.Document) bool) []*models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Document
	for _, id := range r.byUser[owner] {
		d := r.docs[id]
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].RemoteID < out[j].RemoteID
	})
	return out
}
