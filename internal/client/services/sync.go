package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/client"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

var ErrItemWithoutID = errors.New("item has no id")

// LoadResult is the decrypted vault plus the number of entries that could
// not be opened with the key.
type LoadResult struct {
	Items   []models.Item
	Skipped int
}

// PushResult counts remote operations performed by Push, including those
// completed before a failure.
type PushResult struct {
	Created int
	Updated int
	Deleted int
}

// VaultSync reconciles the local item set with the remote document store.
//
// It owns the item id -> remote id map. The map is filled by Load and by
// successful creates, and entries leave it only after a confirmed
// tombstone. Entries that could not be decrypted are "foreign": they are
// mapped so they are never recreated, but Push never tombstones them.
//
// Push updates every mapped item unconditionally; the remote copy is
// replaced with a fresh encryption each time.
type VaultSync struct {
	store  client.DocumentStore
	owner  string
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	remoteIDs map[string]string
	foreign   map[string]struct{}
	fetched   bool
}

func NewVaultSync(store client.DocumentStore, owner string, logger logging.Logger) *VaultSync {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &VaultSync{
		store:     store,
		owner:     owner,
		logger:    logger.With("module", "sync"),
		now:       time.Now,
		remoteIDs: map[string]string{},
		foreign:   map[string]struct{}{},
	}
}

// Load fetches every document for the owner and decrypts what it can.
// Tombstones are dropped, entries failing authentication are skipped and
// counted. The remote id map is rebuilt from the fetch.
func (s *VaultSync) Load(ctx context.Context, key cryptox.Key) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchLocked(ctx, key)
}

func (s *VaultSync) fetchLocked(ctx context.Context, key cryptox.Key) (LoadResult, error) {
	envs, err := s.store.QueryAll(ctx, s.owner)
	if err != nil {
		return LoadResult{}, remoteError("query", err)
	}

	// Pick one live document per item id, the newest one.
	latest := make(map[string]models.Envelope, len(envs))
	var order []string
	for _, env := range envs {
		if env.IsTombstone() {
			continue
		}
		if env.ID == "" {
			env.ID = env.RemoteID
		}
		prev, seen := latest[env.ID]
		if !seen {
			order = append(order, env.ID)
		}
		if !seen || env.UpdatedAt > prev.UpdatedAt {
			latest[env.ID] = env
		}
	}

	remoteIDs := make(map[string]string, len(order))
	foreign := map[string]struct{}{}

	var res LoadResult
	for _, id := range order {
		env := latest[id]
		remoteIDs[id] = env.RemoteID

		it, err := models.OpenEnvelope(env, key)
		if err != nil {
			s.logger.Warn(ctx, "skipping entry", "id", id, "error", err)
			foreign[id] = struct{}{}
			res.Skipped++
			continue
		}
		it.ID = id
		res.Items = append(res.Items, it)
	}

	s.remoteIDs = remoteIDs
	s.foreign = foreign
	s.fetched = true
	return res, nil
}

// Push makes the remote set match items: unmapped items are created,
// mapped ones updated and mapped ids missing from items are tombstoned.
// Operations run one at a time and stop at the first failure; the
// returned PushResult counts what completed. Calling Push again with the
// same items converges to the same remote state.
func (s *VaultSync) Push(ctx context.Context, key cryptox.Key, items []models.Item) (PushResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res PushResult

	if !s.fetched {
		if _, err := s.fetchLocked(ctx, key); err != nil {
			return res, err
		}
	}

	local := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return res, ErrItemWithoutID
		}
		local[it.ID] = struct{}{}

		env, err := models.SealItem(it, key)
		if err != nil {
			return res, err
		}

		if rid, ok := s.remoteIDs[it.ID]; ok {
			if err := s.store.Update(ctx, rid, env.Patch()); err != nil {
				return res, remoteError("update "+it.ID, err)
			}
			delete(s.foreign, it.ID)
			res.Updated++
			continue
		}

		rid, err := s.store.Create(ctx, s.owner, env)
		if err != nil {
			return res, remoteError("create "+it.ID, err)
		}
		s.remoteIDs[it.ID] = rid
		res.Created++
	}

	var gone []string
	for id := range s.remoteIDs {
		if _, ok := local[id]; ok {
			continue
		}
		if _, ok := s.foreign[id]; ok {
			continue
		}
		gone = append(gone, id)
	}
	sort.Strings(gone)

	for _, id := range gone {
		if err := s.store.Tombstone(ctx, s.remoteIDs[id]); err != nil {
			return res, remoteError("delete "+id, err)
		}
		delete(s.remoteIDs, id)
		res.Deleted++
	}

	s.logger.Debug(ctx, "push done", "created", res.Created, "updated", res.Updated, "deleted", res.Deleted)
	return res, nil
}

// Search asks the store for documents whose plaintext label contains term
// and decrypts them. Entries that do not open with key are left out.
func (s *VaultSync) Search(ctx context.Context, key cryptox.Key, term string) ([]models.Item, error) {
	envs, err := s.store.Search(ctx, s.owner, term)
	if err != nil {
		return nil, remoteError("search", err)
	}

	var out []models.Item
	for _, env := range envs {
		if env.IsTombstone() {
			continue
		}
		it, err := models.OpenEnvelope(env, key)
		if err != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// RemoteID returns the remote document id mapped to an item id.
func (s *VaultSync) RemoteID(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid, ok := s.remoteIDs[id]
	return rid, ok
}

// Forget drops the remote id map. The next Push refetches first.
func (s *VaultSync) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteIDs = map[string]string{}
	s.foreign = map[string]struct{}{}
	s.fetched = false
}

// remoteError tags store failures with common.ErrRemoteUnavailable while
// keeping the original cause matchable.
func remoteError(op string, err error) error {
	if errors.Is(err, common.ErrRemoteUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrRemoteUnavailable, err)
}
