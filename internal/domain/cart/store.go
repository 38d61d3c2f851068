package cart

import (
	"context"
	"sync"
)

// MemoryRepository is a session-scoped, in-memory Repository. It is the
// fallback cart store when no durable backend is configured, and doubles as
// a test double. Snapshots are copied on the way in and out so callers can
// never alias the stored state.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]State
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory cart store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]State)}
}

// Get returns the owner's cart snapshot, or the empty state when none exists.
func (r *MemoryRepository) Get(_ context.Context, ownerID string) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyState(r.carts[ownerID]), nil
}

// Save stores the owner's cart snapshot.
func (r *MemoryRepository) Save(_ context.Context, ownerID string, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[ownerID] = copyState(state)
	return nil
}

func copyState(state State) State {
	if state.Items == nil {
		return State{TotalItems: state.TotalItems}
	}
	items := make([]Item, len(state.Items))
	copy(items, state.Items)
	return State{Items: items, TotalItems: state.TotalItems}
}
