package services

import (
	"fmt"
	"log"
	"time"

	"curio/internal/models"
	"curio/internal/ordering"
	"curio/internal/repositories"

	"curio/pkg/filestore"
)

// ReorderRequest carries one of the two accepted reorder shapes. IDs is the
// full-sequence form (list position is the new order); Orders is the sparse
// pairs form. Exactly one may be set.
type ReorderRequest struct {
	IDs    []string        `json:"ids"`
	Orders []ordering.Pair `json:"orders"`
}

// resolve validates the request against the current live member set and
// returns the dense order assignment.
func (r ReorderRequest) resolve(current []string) (map[string]int, error) {
	if len(r.IDs) > 0 && len(r.Orders) > 0 {
		return nil, validationf("provide either ids or orders, not both")
	}
	var (
		orders map[string]int
		err    error
	)
	if len(r.Orders) > 0 {
		orders, err = ordering.AssignSparse(current, r.Orders)
	} else {
		orders, err = ordering.Assign(current, r.IDs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrValidation)
	}
	return orders, nil
}

// CollectionService handles business logic for collections: CRUD, display
// order reconciliation, and the explicit delete cascade.
type CollectionService struct {
	store repositories.Store
	files filestore.Store
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(store repositories.Store, files filestore.Store) *CollectionService {
	return &CollectionService{store: store, files: files}
}

// List retrieves all collections of a user in display order.
func (s *CollectionService) List(userID string) ([]models.Collection, error) {
	return s.store.Collections().ListByOwner(userID)
}

// Get retrieves one owned collection with its items.
func (s *CollectionService) Get(userID, collectionID string) (*models.Collection, error) {
	return s.store.Collections().GetOwned(userID, collectionID)
}

// Create creates a collection at the next free order slot.
func (s *CollectionService) Create(userID, name, description string) (*models.Collection, error) {
	collection := &models.Collection{
		Name:        name,
		Description: description,
		OwnerID:     userID,
	}
	err := s.store.InTransaction(func(tx repositories.Store) error {
		next, err := tx.Collections().NextOrder(userID)
		if err != nil {
			return err
		}
		collection.CollectionOrder = next
		return tx.Collections().Create(collection)
	})
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// Update changes a collection's name and description.
func (s *CollectionService) Update(userID, collectionID, name, description string) (*models.Collection, error) {
	collection, err := s.store.Collections().GetOwned(userID, collectionID)
	if err != nil {
		return nil, err
	}
	collection.Name = name
	collection.Description = description
	collection.UpdatedDate = time.Now().UTC()
	if err := s.store.Collections().Save(collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Delete removes a collection and everything under it: images, tag
// associations, items, and its share, as one explicit ordered cascade in a
// single transaction. Remaining collections are renumbered so the owner's
// order sequence stays dense. Stored files are removed afterwards,
// best-effort.
func (s *CollectionService) Delete(userID, collectionID string) error {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return err
	}

	var orphanedURLs []string
	err := s.store.InTransaction(func(tx repositories.Store) error {
		images, err := tx.Images().ListByCollection(collectionID)
		if err != nil {
			return err
		}
		for _, img := range images {
			orphanedURLs = append(orphanedURLs, img.ImageURL)
		}

		if err := tx.Images().DeleteByCollection(collectionID); err != nil {
			return err
		}
		if err := tx.Tags().ClearByCollection(collectionID); err != nil {
			return err
		}
		if err := tx.Items().DeleteByCollection(collectionID); err != nil {
			return err
		}
		if err := tx.Shares().DeleteByCollection(collectionID); err != nil {
			return err
		}
		if err := tx.Collections().Delete(collectionID); err != nil {
			return err
		}
		return compactCollectionOrders(tx, userID)
	})
	if err != nil {
		return err
	}

	s.removeFiles(orphanedURLs)
	return nil
}

// Reorder applies a full or sparse reordering over the user's collections.
// Validation happens before any write; a mismatch leaves every stored order
// untouched.
func (s *CollectionService) Reorder(userID string, req ReorderRequest) ([]models.Collection, error) {
	collections, err := s.store.Collections().ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	current := make([]string, len(collections))
	for i, c := range collections {
		current[i] = c.ID
	}

	orders, err := req.resolve(current)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.store.InTransaction(func(tx repositories.Store) error {
		return tx.Collections().UpdateOrders(orders, now)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Collections().ListByOwner(userID)
}

func (s *CollectionService) removeFiles(urls []string) {
	for _, url := range urls {
		if err := s.files.Remove(url); err != nil {
			// The database record is the source of truth; a stale file
			// on disk is housekeeping, not a failure.
			log.Printf("Failed to remove stored file %s: %v", url, err)
		}
	}
}

// compactCollectionOrders renumbers a user's surviving collections 0..n-1,
// preserving their relative order.
func compactCollectionOrders(tx repositories.Store, userID string) error {
	remaining, err := tx.Collections().ListByOwner(userID)
	if err != nil {
		return err
	}
	orders := make(map[string]int, len(remaining))
	for i, c := range remaining {
		if c.CollectionOrder != i {
			orders[c.ID] = i
		}
	}
	if len(orders) == 0 {
		return nil
	}
	return tx.Collections().UpdateOrders(orders, time.Now().UTC())
}

// compactItemOrders renumbers a collection's surviving items 0..n-1.
func compactItemOrders(tx repositories.Store, collectionID string) error {
	remaining, err := tx.Items().ListByCollection(collectionID)
	if err != nil {
		return err
	}
	orders := make(map[string]int, len(remaining))
	for i, it := range remaining {
		if it.ItemOrder != i {
			orders[it.ID] = i
		}
	}
	if len(orders) == 0 {
		return nil
	}
	return tx.Items().UpdateOrders(orders, time.Now().UTC())
}

// compactImageOrders renumbers an item's surviving images 0..n-1.
func compactImageOrders(tx repositories.Store, itemID string) error {
	remaining, err := tx.Images().ListByItem(itemID)
	if err != nil {
		return err
	}
	orders := make(map[string]int, len(remaining))
	for i, img := range remaining {
		if img.ImageOrder != i {
			orders[img.ID] = i
		}
	}
	if len(orders) == 0 {
		return nil
	}
	return tx.Images().UpdateOrders(orders, time.Now().UTC())
}
