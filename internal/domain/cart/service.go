package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// Service applies cart operations for each owner through the pure reducer,
// persisting the resulting snapshot. The reducer itself performs no locking
// and no I/O; the Service guarantees the single-logical-writer ordering the
// reducer assumes by serializing operations per owner.
type Service struct {
	repo Repository

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// NewService creates a cart Service backed by the given Repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		owners: make(map[string]*sync.Mutex),
	}
}

// ownerLock returns the mutex serializing operations for one owner.
func (s *Service) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.owners[ownerID]
	if !ok {
		m = &sync.Mutex{}
		s.owners[ownerID] = m
	}
	return m
}

// apply loads the owner's state, runs the reducer, and persists the result.
func (s *Service) apply(ctx context.Context, ownerID string, op Op) (State, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return State{}, errors.Wrap(err, "load cart")
	}

	next := Reduce(state, op)

	if err := s.repo.Save(ctx, ownerID, next); err != nil {
		return State{}, errors.Wrap(err, "save cart")
	}
	return next, nil
}

// Get returns the owner's current cart snapshot.
func (s *Service) Get(ctx context.Context, ownerID string) (State, error) {
	state, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return State{}, errors.Wrap(err, "load cart")
	}
	return state, nil
}

// Add puts the product into the owner's cart, incrementing the quantity when
// the product is already present.
func (s *Service) Add(ctx context.Context, ownerID string, p catalog.Product) (State, error) {
	return s.apply(ctx, ownerID, Op{Type: OpAdd, Product: p})
}

// Remove deletes the product line from the owner's cart. Removing an absent
// product is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, ownerID string, productID int64) (State, error) {
	return s.apply(ctx, ownerID, Op{Type: OpRemove, ProductID: productID})
}

// UpdateQuantity sets the line quantity for the product. A quantity of zero
// or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (State, error) {
	return s.apply(ctx, ownerID, Op{Type: OpUpdateQuantity, ProductID: productID, Quantity: quantity})
}

// Clear resets the owner's cart to the empty state.
func (s *Service) Clear(ctx context.Context, ownerID string) (State, error) {
	return s.apply(ctx, ownerID, Op{Type: OpClear})
}
