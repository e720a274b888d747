package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

// Operation names passed to MemoryStore.Fault.
const (
	OpQueryAll          = "query_all"
	OpCreate            = "create"
	OpUpdate            = "update"
	OpTombstone         = "tombstone"
	OpSearch            = "search"
	OpPutShare          = "put_share"
	OpGetShare          = "get_share"
	OpListShares        = "list_shares"
	OpUpdateShareStatus = "update_share_status"
)

type memoryDoc struct {
	owner string
	env   models.Envelope
}

// MemoryStore is an in-process Remote. Fault, when set, runs before every
// operation; a non-nil result fails the operation without side effects.
type MemoryStore struct {
	Fault func(op string) error

	mu     sync.Mutex
	now    func() time.Time
	docs   map[string]*memoryDoc
	order  []string
	shares map[string]models.ShareRequest
	calls  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:    time.Now,
		docs:   make(map[string]*memoryDoc),
		shares: make(map[string]models.ShareRequest),
		calls:  make(map[string]int),
	}
}

// SetClock replaces the time source used for tombstones and expiry.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Calls reports how many times op was attempted.
func (m *MemoryStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Document returns the stored envelope behind remoteID.
func (m *MemoryStore) Document(remoteID string) (models.Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[remoteID]
	if !ok {
		return models.Envelope{}, false
	}
	return d.env, true
}

// enter counts op and runs the fault hook. Caller holds m.mu.
func (m *MemoryStore) enter(op string) error {
	m.calls[op]++
	if m.Fault != nil {
		return m.Fault(op)
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) QueryAll(_ context.Context, owner string) ([]models.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpQueryAll); err != nil {
		return nil, err
	}
	return m.filterLocked(owner, func(models.Envelope) bool { return true }), nil
}

func (m *MemoryStore) Search(_ context.Context, owner, term string) ([]models.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpSearch); err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	return m.filterLocked(owner, func(e models.Envelope) bool {
		return strings.Contains(strings.ToLower(e.ServiceName), term)
	}), nil
}

func (m *MemoryStore) filterLocked(owner string, keep func(models.Envelope) bool) []models.Envelope {
	var out []models.Envelope
	for _, rid := range m.order {
		d := m.docs[rid]
		if d.owner == owner && keep(d.env) {
			out = append(out, d.env)
		}
	}
	return out
}

func (m *MemoryStore) Create(_ context.Context, owner string, env models.Envelope) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpCreate); err != nil {
		return "", err
	}

	rid := "doc-" + uuid.NewString()
	env.RemoteID = rid
	m.docs[rid] = &memoryDoc{owner: owner, env: env}
	m.order = append(m.order, rid)
	return rid, nil
}

// Seed stores env under a caller-chosen remote id, bypassing Fault.
func (m *MemoryStore) Seed(owner, remoteID string, env models.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	env.RemoteID = remoteID
	if _, ok := m.docs[remoteID]; !ok {
		m.order = append(m.order, remoteID)
	}
	m.docs[remoteID] = &memoryDoc{owner: owner, env: env}
}

func (m *MemoryStore) Update(_ context.Context, remoteID string, p models.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpdate); err != nil {
		return err
	}

	d, ok := m.docs[remoteID]
	if !ok {
		return common.ErrorNotFound
	}
	d.env.Apply(p)
	return nil
}

func (m *MemoryStore) Tombstone(_ context.Context, remoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpTombstone); err != nil {
		return err
	}

	d, ok := m.docs[remoteID]
	if !ok {
		return common.ErrorNotFound
	}
	d.env.Tombstone(m.now())
	return nil
}

func (m *MemoryStore) PutShare(_ context.Context, r models.ShareRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpPutShare); err != nil {
		return "", err
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Status = models.ShareStatusPending
	m.shares[r.ID] = r
	return r.ID, nil
}

func (m *MemoryStore) GetShare(_ context.Context, id string) (models.ShareRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpGetShare); err != nil {
		return models.ShareRequest{}, err
	}

	r, ok := m.shares[id]
	if !ok {
		return models.ShareRequest{}, common.ErrorNotFound
	}
	return r.Observed(m.now()), nil
}

func (m *MemoryStore) ListShares(_ context.Context, toHash, fromHash string) ([]models.ShareRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpListShares); err != nil {
		return nil, err
	}

	now := m.now()
	var out []models.ShareRequest
	for _, r := range m.shares {
		if toHash != "" && r.ToWalletHash != toHash {
			continue
		}
		if fromHash != "" && r.FromWalletHash != fromHash {
			continue
		}
		out = append(out, r.Observed(now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *MemoryStore) UpdateShareStatus(_ context.Context, id string, status models.ShareStatus) (models.ShareRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpdateShareStatus); err != nil {
		return models.ShareRequest{}, err
	}

	r, ok := m.shares[id]
	if !ok {
		return models.ShareRequest{}, common.ErrorNotFound
	}
	if r.Expired(m.now()) {
		if r.Status == models.ShareStatusPending {
			r.Status = models.ShareStatusExpired
			m.shares[id] = r
		}
		return models.ShareRequest{}, common.ErrShareExpired
	}
	if r.Status.Terminal() {
		return models.ShareRequest{}, common.ErrShareFinal
	}
	r.Status = status
	m.shares[id] = r
	return r, nil
}
