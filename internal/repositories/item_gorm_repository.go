package repositories

import (
	"errors"
	"fmt"
	"time"

	"curio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("image_order")
}

// Create creates a new item, assigning an ID and timestamps.
func (r *GORMItemRepository) Create(item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	item.CreatedDate = now
	item.UpdatedDate = now
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetOwned retrieves an item by ID, verifying transitive ownership through
// the collection's owner. A foreign or nonexistent item is ErrNotFound.
func (r *GORMItemRepository) GetOwned(userID, itemID string) (*models.Item, error) {
	var item models.Item
	err := r.db.
		Joins("JOIN collections ON collections.id = items.collection_id").
		Where("items.id = ? AND collections.owner_id = ?", itemID, userID).
		Preload("Images", orderedImages).
		Preload("Tags").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetInCollection retrieves an item only if it belongs to the given
// collection. Used by public share resolution.
func (r *GORMItemRepository) GetInCollection(collectionID, itemID string) (*models.Item, error) {
	var item models.Item
	err := r.db.
		Where("id = ? AND collection_id = ?", itemID, collectionID).
		Preload("Images", orderedImages).
		Preload("Tags").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %s: %w", itemID, err)
	}
	return &item, nil
}

// ListByCollection retrieves all items of a collection in display order.
func (r *GORMItemRepository) ListByCollection(collectionID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Preload("Images", orderedImages).
		Preload("Tags").
		Order("item_order").
		Find(&items, "collection_id = ?", collectionID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Save writes all fields of an existing item back to the database.
func (r *GORMItemRepository) Save(item *models.Item) error {
	res := r.db.Omit("Images", "Tags").Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item row.
func (r *GORMItemRepository) Delete(id string) error {
	res := r.db.Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByCollection removes all item rows of a collection.
func (r *GORMItemRepository) DeleteByCollection(collectionID string) error {
	if err := r.db.Delete(&models.Item{}, "collection_id = ?", collectionID).Error; err != nil {
		return fmt.Errorf("failed to delete items for collection %s: %w", collectionID, err)
	}
	return nil
}

// DeleteByOwner removes all item rows of every collection owned by a user.
func (r *GORMItemRepository) DeleteByOwner(ownerID string) error {
	err := r.db.
		Where("collection_id IN (?)",
			r.db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", ownerID)).
		Delete(&models.Item{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete items for user %s: %w", ownerID, err)
	}
	return nil
}

// NextOrder returns the order value for a newly created item. Orders are kept
// dense, so the next free slot is the current member count.
func (r *GORMItemRepository) NextOrder(collectionID string) (int, error) {
	var count int64
	err := r.db.Model(&models.Item{}).Where("collection_id = ?", collectionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

// UpdateOrders applies a validated order assignment in one pass.
func (r *GORMItemRepository) UpdateOrders(orders map[string]int, ts time.Time) error {
	for id, order := range orders {
		err := r.db.Model(&models.Item{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"item_order": order, "updated_date": ts}).Error
		if err != nil {
			return fmt.Errorf("failed to update order for item %s: %w", id, err)
		}
	}
	return nil
}

// Touch advances an item's updated timestamp.
func (r *GORMItemRepository) Touch(id string, ts time.Time) error {
	err := r.db.Model(&models.Item{}).Where("id = ?", id).Update("updated_date", ts).Error
	if err != nil {
		return fmt.Errorf("failed to touch item %s: %w", id, err)
	}
	return nil
}
