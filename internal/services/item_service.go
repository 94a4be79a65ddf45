package services

import (
	"errors"
	"log"
	"time"

	"curio/internal/models"
	"curio/internal/repositories"

	"curio/pkg/filestore"
)

// ItemService handles business logic for items within collections, including
// the shared tag namespace.
type ItemService struct {
	store repositories.Store
	files filestore.Store
}

// NewItemService creates a new ItemService.
func NewItemService(store repositories.Store, files filestore.Store) *ItemService {
	return &ItemService{store: store, files: files}
}

// Get retrieves one owned item with its images and tags. Ownership is
// transitive through the item's collection.
func (s *ItemService) Get(userID, itemID string) (*models.Item, error) {
	return s.store.Items().GetOwned(userID, itemID)
}

// List retrieves all items of an owned collection in display order.
func (s *ItemService) List(userID, collectionID string) ([]models.Item, error) {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return nil, err
	}
	return s.store.Items().ListByCollection(collectionID)
}

// Create creates an item at the next free order slot and advances the
// collection's updated timestamp.
func (s *ItemService) Create(userID, collectionID, name, description string) (*models.Item, error) {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:         name,
		Description:  description,
		CollectionID: collectionID,
	}
	err := s.store.InTransaction(func(tx repositories.Store) error {
		next, err := tx.Items().NextOrder(collectionID)
		if err != nil {
			return err
		}
		item.ItemOrder = next
		if err := tx.Items().Create(item); err != nil {
			return err
		}
		return tx.Collections().Touch(collectionID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes an item's name and description.
func (s *ItemService) Update(userID, itemID, name, description string) (*models.Item, error) {
	item, err := s.store.Items().GetOwned(userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Name = name
	item.Description = description
	item.UpdatedDate = time.Now().UTC()
	if err := s.store.Items().Save(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item, its images, and its tag associations in one
// transaction, then renumbers the collection's surviving items so the order
// sequence stays dense. Stored files are removed afterwards, best-effort.
func (s *ItemService) Delete(userID, itemID string) error {
	item, err := s.store.Items().GetOwned(userID, itemID)
	if err != nil {
		return err
	}

	var orphanedURLs []string
	err = s.store.InTransaction(func(tx repositories.Store) error {
		images, err := tx.Images().ListByItem(itemID)
		if err != nil {
			return err
		}
		for _, img := range images {
			orphanedURLs = append(orphanedURLs, img.ImageURL)
		}

		if err := tx.Images().DeleteByItem(itemID); err != nil {
			return err
		}
		if err := tx.Tags().ClearForItem(itemID); err != nil {
			return err
		}
		if err := tx.Items().Delete(itemID); err != nil {
			return err
		}
		if err := compactItemOrders(tx, item.CollectionID); err != nil {
			return err
		}
		return tx.Collections().Touch(item.CollectionID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	for _, url := range orphanedURLs {
		if err := s.files.Remove(url); err != nil {
			log.Printf("Failed to remove stored file %s: %v", url, err)
		}
	}
	return nil
}

// Reorder applies a full or sparse reordering over a collection's items.
// Validation happens before any write; a mismatch leaves stored orders
// untouched.
func (s *ItemService) Reorder(userID, collectionID string, req ReorderRequest) ([]models.Item, error) {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return nil, err
	}
	items, err := s.store.Items().ListByCollection(collectionID)
	if err != nil {
		return nil, err
	}
	current := make([]string, len(items))
	for i, it := range items {
		current[i] = it.ID
	}

	orders, err := req.resolve(current)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.store.InTransaction(func(tx repositories.Store) error {
		if err := tx.Items().UpdateOrders(orders, now); err != nil {
			return err
		}
		return tx.Collections().Touch(collectionID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Items().ListByCollection(collectionID)
}

// Tags retrieves all tags of an owned item.
func (s *ItemService) Tags(userID, itemID string) ([]models.Tag, error) {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return nil, err
	}
	return s.store.Tags().ListForItem(itemID)
}

// AddTags associates named tags with an item, creating any that do not exist
// in the global namespace. Adding a tag the item already carries is a no-op.
// Two requests racing to create the same tag are resolved by retrying the
// lookup once after a failed insert.
func (s *ItemService) AddTags(userID, itemID string, names []string) ([]models.Tag, error) {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return nil, err
	}

	err := s.store.InTransaction(func(tx repositories.Store) error {
		for _, name := range names {
			tag, err := s.getOrCreateTag(tx, name)
			if err != nil {
				return err
			}
			associated, err := tx.Tags().IsAssociated(itemID, tag.ID)
			if err != nil {
				return err
			}
			if associated {
				continue
			}
			if err := tx.Tags().Associate(itemID, tag.ID); err != nil {
				return err
			}
		}
		return tx.Items().Touch(itemID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return s.store.Tags().ListForItem(itemID)
}

// ClearTags removes all tag associations from an item. The tags themselves
// survive in the global namespace until the maintenance sweep collects them.
func (s *ItemService) ClearTags(userID, itemID string) error {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return err
	}
	return s.store.InTransaction(func(tx repositories.Store) error {
		if err := tx.Tags().ClearForItem(itemID); err != nil {
			return err
		}
		return tx.Items().Touch(itemID, time.Now().UTC())
	})
}

// CleanupUnusedTags removes tags with zero item associations and reports how
// many were deleted. Maintenance operation, run manually or on a timer.
func (s *ItemService) CleanupUnusedTags() (int64, error) {
	return s.store.Tags().DeleteUnused()
}

func (s *ItemService) getOrCreateTag(tx repositories.Store, name string) (*models.Tag, error) {
	tag, err := tx.Tags().GetByName(name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	tag = &models.Tag{Name: name}
	if createErr := tx.Tags().Create(tag); createErr != nil {
		// A concurrent request may have won the race on the unique name
		// index; one retry of the lookup settles it.
		tag, err = tx.Tags().GetByName(name)
		if err == nil {
			return tag, nil
		}
		return nil, conflictf("tag %q already exists", name)
	}
	return tag, nil
}
