package repositories

import (
	"fmt"
	"sync"

	"resep/internal/models"

	"gorm.io/gorm"
)

type relationPair struct {
	ownerID  uint
	targetID uint
}

// MockRelationRepository is an in-memory implementation of
// RelationRepository. It honors the same error contract as the GORM
// implementation: duplicate creates wrap gorm.ErrDuplicatedKey and
// deletes of absent pairs wrap gorm.ErrRecordNotFound.
type MockRelationRepository struct {
	pairs map[RelationKind]map[relationPair]struct{}
	mu    sync.RWMutex

	// ShoppingList is returned verbatim by SumCartIngredients; tests
	// preset it with the rows they expect the aggregation to yield.
	ShoppingList []ShoppingListRow
	// SubscribedAuthors is returned verbatim by ListSubscribedAuthors.
	SubscribedAuthors []models.User
}

// NewMockRelationRepository creates a new instance of MockRelationRepository.
func NewMockRelationRepository() *MockRelationRepository {
	return &MockRelationRepository{
		pairs: make(map[RelationKind]map[relationPair]struct{}),
	}
}

// Create adds the (owner, target) pair, failing on duplicates.
func (r *MockRelationRepository) Create(kind RelationKind, ownerID, targetID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pairs[kind] == nil {
		r.pairs[kind] = make(map[relationPair]struct{})
	}
	pair := relationPair{ownerID: ownerID, targetID: targetID}
	if _, ok := r.pairs[kind][pair]; ok {
		return fmt.Errorf("failed to create %s relation: %w", kind, gorm.ErrDuplicatedKey)
	}
	r.pairs[kind][pair] = struct{}{}
	return nil
}

// Delete removes the (owner, target) pair, failing when absent.
func (r *MockRelationRepository) Delete(kind RelationKind, ownerID, targetID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := relationPair{ownerID: ownerID, targetID: targetID}
	if _, ok := r.pairs[kind][pair]; !ok {
		return fmt.Errorf("%s relation does not exist: %w", kind, gorm.ErrRecordNotFound)
	}
	delete(r.pairs[kind], pair)
	return nil
}

// Exists reports whether the (owner, target) pair is present.
func (r *MockRelationRepository) Exists(kind RelationKind, ownerID, targetID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pairs[kind][relationPair{ownerID: ownerID, targetID: targetID}]
	return ok, nil
}

// ListSubscribedAuthors returns the preset author list.
func (r *MockRelationRepository) ListSubscribedAuthors(subscriberID uint) ([]models.User, error) {
	return r.SubscribedAuthors, nil
}

// SumCartIngredients returns the preset shopping list rows.
func (r *MockRelationRepository) SumCartIngredients(userID uint) ([]ShoppingListRow, error) {
	return r.ShoppingList, nil
}
