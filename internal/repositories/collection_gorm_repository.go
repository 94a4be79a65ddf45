package repositories

import (
	"errors"
	"fmt"
	"time"

	"curio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("item_order")
}

// Create creates a new collection, assigning an ID and timestamps.
func (r *GORMCollectionRepository) Create(collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	collection.CreatedDate = now
	collection.UpdatedDate = now
	if err := r.db.Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// GetOwned retrieves a collection by ID, scoped to its owner. Items are
// preloaded in display order with their images and tags.
func (r *GORMCollectionRepository) GetOwned(ownerID, id string) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.
		Preload("Items", orderedItems).
		Preload("Items.Images", func(db *gorm.DB) *gorm.DB { return db.Order("image_order") }).
		Preload("Items.Tags").
		First(&collection, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", id, err)
	}
	return &collection, nil
}

// GetByID retrieves a collection without an ownership scope. Only public
// share resolution may use this; every authenticated path goes through
// GetOwned.
func (r *GORMCollectionRepository) GetByID(id string) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.
		Preload("Items", orderedItems).
		Preload("Items.Images", func(db *gorm.DB) *gorm.DB { return db.Order("image_order") }).
		Preload("Items.Tags").
		First(&collection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", id, err)
	}
	return &collection, nil
}

// ListByOwner retrieves all collections of a user in display order.
func (r *GORMCollectionRepository) ListByOwner(ownerID string) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.
		Preload("Items", orderedItems).
		Order("collection_order").
		Find(&collections, "owner_id = ?", ownerID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

// Save writes all fields of an existing collection back to the database.
func (r *GORMCollectionRepository) Save(collection *models.Collection) error {
	res := r.db.Omit("Items").Save(collection)
	if res.Error != nil {
		return fmt.Errorf("failed to update collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a collection row.
func (r *GORMCollectionRepository) Delete(id string) error {
	res := r.db.Delete(&models.Collection{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner removes all collection rows of a user.
func (r *GORMCollectionRepository) DeleteByOwner(ownerID string) error {
	if err := r.db.Delete(&models.Collection{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete collections for user %s: %w", ownerID, err)
	}
	return nil
}

// NextOrder returns the order value for a newly created collection. Orders
// are kept dense, so the next free slot is the current member count.
func (r *GORMCollectionRepository) NextOrder(ownerID string) (int, error) {
	var count int64
	err := r.db.Model(&models.Collection{}).Where("owner_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return int(count), nil
}

// UpdateOrders applies a validated order assignment in one pass.
func (r *GORMCollectionRepository) UpdateOrders(orders map[string]int, ts time.Time) error {
	for id, order := range orders {
		err := r.db.Model(&models.Collection{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"collection_order": order, "updated_date": ts}).Error
		if err != nil {
			return fmt.Errorf("failed to update order for collection %s: %w", id, err)
		}
	}
	return nil
}

// Touch advances a collection's updated timestamp.
func (r *GORMCollectionRepository) Touch(id string, ts time.Time) error {
	err := r.db.Model(&models.Collection{}).Where("id = ?", id).Update("updated_date", ts).Error
	if err != nil {
		return fmt.Errorf("failed to touch collection %s: %w", id, err)
	}
	return nil
}
