package keyring

import (
	"sync"

	"styrby/internal/domain"
	"styrby/internal/util/memzero"
)

const (
	// DefaultCapacity is the hard cap on cached session keys.
	DefaultCapacity = 100
	// EvictionHeadroom is how many extra entries each prune removes, so
	// eviction runs in batches instead of on every insert.
	EvictionHeadroom = 10
)

// Registry memoises derived session keys with FIFO eviction. It owns the
// user secret and is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	secret   []byte
	capacity int
	headroom int
	keys     map[string]*domain.SessionKey
	order    []string // insertion order, oldest first
}

// NewRegistry returns a registry over userSecret with DefaultCapacity.
func NewRegistry(userSecret []byte) *Registry {
	return NewRegistryWithCapacity(userSecret, DefaultCapacity, EvictionHeadroom)
}

// NewRegistryWithCapacity allows tests and long-running daemons to tune
// the cache bounds.
func NewRegistryWithCapacity(userSecret []byte, capacity, headroom int) *Registry {
	return &Registry{
		secret:   append([]byte(nil), userSecret...),
		capacity: capacity,
		headroom: headroom,
		keys:     make(map[string]*domain.SessionKey),
	}
}

func cacheKey(sessionID, machineID string) string { return sessionID + ":" + machineID }

// GetOrDerive returns the key for (sessionID, machineID), deriving and
// caching it on a miss. A miss prunes first, so the cache never exceeds
// its capacity and the fresh entry is never evicted.
//
// The returned key is a private copy: eviction wipes only the cached
// array, so a key already handed out stays usable for the operation in
// flight.
func (r *Registry) GetOrDerive(sessionID, machineID string) (*domain.SessionKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ck := cacheKey(sessionID, machineID)
	if k, ok := r.keys[ck]; ok {
		out := *k
		return &out, nil
	}

	r.pruneLocked()

	k, err := DeriveSessionKey(r.secret, sessionID, machineID)
	if err != nil {
		return nil, err
	}
	r.keys[ck] = k
	r.order = append(r.order, ck)
	out := *k
	return &out, nil
}

// pruneLocked batch-evicts the oldest entries once the cache is full.
func (r *Registry) pruneLocked() {
	if len(r.keys) < r.capacity {
		return
	}
	drop := len(r.keys) - r.capacity + r.headroom
	if drop > len(r.order) {
		drop = len(r.order)
	}
	for _, ck := range r.order[:drop] {
		r.wipeLocked(ck)
	}
	r.order = append([]string(nil), r.order[drop:]...)
}

// Evict removes one session's key immediately, wiping its material.
// Used when a session ends or errors.
func (r *Registry) Evict(sessionID, machineID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ck := cacheKey(sessionID, machineID)
	if _, ok := r.keys[ck]; !ok {
		return
	}
	r.wipeLocked(ck)
	for i, o := range r.order {
		if o == ck {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear wipes and removes every cached key.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ck := range r.keys {
		r.wipeLocked(ck)
	}
	r.order = nil
}

// Len reports how many keys are currently cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// Contains reports whether a key for (sessionID, machineID) is cached,
// without deriving.
func (r *Registry) Contains(sessionID, machineID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[cacheKey(sessionID, machineID)]
	return ok
}

func (r *Registry) wipeLocked(ck string) {
	if k := r.keys[ck]; k != nil {
		memzero.Zero(k[:])
	}
	delete(r.keys, ck)
}
