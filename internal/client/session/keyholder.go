// Package session holds the derived vault key for the lifetime of a
// signed-in client context.
package session

import (
	"sync"
	"time"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
)

// KeyHolder keeps the vault key sealed in a memguard enclave. With a
// non-zero idle timeout the key is dropped after that long without use;
// Key then fails with common.ErrVaultLocked until Set is called again.
type KeyHolder struct {
	mu      sync.Mutex
	enclave *memguard.Enclave
	locked  bool
	idle    time.Duration
	timer   *time.Timer
	onLock  func()
}

func NewKeyHolder(idle time.Duration) *KeyHolder {
	return &KeyHolder{idle: idle}
}

// OnLock registers fn to run after an automatic lock.
func (h *KeyHolder) OnLock(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLock = fn
}

// Set stores k. The caller's copy is not wiped.
func (h *KeyHolder) Set(k cryptox.Key) {
	buf := make([]byte, cryptox.KeySize)
	copy(buf, k[:])

	h.mu.Lock()
	defer h.mu.Unlock()
	h.enclave = memguard.NewEnclave(buf)
	h.locked = false
	h.touchLocked()
}

// Key returns a copy of the key and restarts the idle timer.
func (h *KeyHolder) Key() (cryptox.Key, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.enclave == nil {
		if h.locked {
			return cryptox.Key{}, common.ErrVaultLocked
		}
		return cryptox.Key{}, common.ErrKeyNotInitialized
	}

	lb, err := h.enclave.Open()
	if err != nil {
		return cryptox.Key{}, err
	}
	defer lb.Destroy()

	k, err := cryptox.KeyFromBytes(lb.Bytes())
	if err != nil {
		return cryptox.Key{}, err
	}
	h.touchLocked()
	return k, nil
}

// Locked reports whether the key was dropped by Lock or the idle timer.
func (h *KeyHolder) Locked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.locked
}

// Lock drops the key but remembers that a session exists.
func (h *KeyHolder) Lock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked()
	h.locked = true
}

// Clear drops the key and the session, as on logout.
func (h *KeyHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked()
	h.locked = false
}

func (h *KeyHolder) dropLocked() {
	h.enclave = nil
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *KeyHolder) touchLocked() {
	if h.idle <= 0 {
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(h.idle, func() { h.expire(t) })
	h.timer = t
}

func (h *KeyHolder) expire(t *time.Timer) {
	h.mu.Lock()
	if h.timer != t || h.enclave == nil {
		h.mu.Unlock()
		return
	}
	h.dropLocked()
	h.locked = true
	fn := h.onLock
	h.mu.Unlock()

	if fn != nil {
		fn()
	}
}
