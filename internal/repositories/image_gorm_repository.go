package repositories

import (
	"errors"
	"fmt"
	"time"

	"curio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{db: db}
}

// Create creates a new image record, assigning an ID and timestamps.
func (r *GORMImageRepository) Create(image *models.ItemImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	image.CreatedDate = now
	image.UpdatedDate = now
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetOwned retrieves an image by ID, verifying transitive ownership through
// item and collection to the owning user.
func (r *GORMImageRepository) GetOwned(userID, imageID string) (*models.ItemImage, error) {
	var image models.ItemImage
	err := r.db.
		Joins("JOIN items ON items.id = item_images.item_id").
		Joins("JOIN collections ON collections.id = items.collection_id").
		Where("item_images.id = ? AND collections.owner_id = ?", imageID, userID).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image %s: %w", imageID, err)
	}
	return &image, nil
}

// ListByItem retrieves all images of an item in display order.
func (r *GORMImageRepository) ListByItem(itemID string) ([]models.ItemImage, error) {
	var images []models.ItemImage
	err := r.db.Order("image_order").Find(&images, "item_id = ?", itemID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// ListByCollection retrieves all images attached to any item of a collection.
func (r *GORMImageRepository) ListByCollection(collectionID string) ([]models.ItemImage, error) {
	var images []models.ItemImage
	err := r.db.
		Joins("JOIN items ON items.id = item_images.item_id").
		Where("items.collection_id = ?", collectionID).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images for collection %s: %w", collectionID, err)
	}
	return images, nil
}

// ListByOwner retrieves every image owned by a user, across all collections.
func (r *GORMImageRepository) ListByOwner(ownerID string) ([]models.ItemImage, error) {
	var images []models.ItemImage
	err := r.db.
		Joins("JOIN items ON items.id = item_images.item_id").
		Joins("JOIN collections ON collections.id = items.collection_id").
		Where("collections.owner_id = ?", ownerID).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images for user %s: %w", ownerID, err)
	}
	return images, nil
}

// Delete removes an image row.
func (r *GORMImageRepository) Delete(id string) error {
	res := r.db.Delete(&models.ItemImage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByIDs removes a batch of image rows.
func (r *GORMImageRepository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Delete(&models.ItemImage{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}
	return nil
}

// DeleteByItem removes all image rows of an item.
func (r *GORMImageRepository) DeleteByItem(itemID string) error {
	if err := r.db.Delete(&models.ItemImage{}, "item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("failed to delete images for item %s: %w", itemID, err)
	}
	return nil
}

// DeleteByCollection removes all image rows of every item in a collection.
func (r *GORMImageRepository) DeleteByCollection(collectionID string) error {
	err := r.db.
		Where("item_id IN (?)",
			r.db.Model(&models.Item{}).Select("id").Where("collection_id = ?", collectionID)).
		Delete(&models.ItemImage{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete images for collection %s: %w", collectionID, err)
	}
	return nil
}

// DeleteByOwner removes all image rows belonging to a user.
func (r *GORMImageRepository) DeleteByOwner(ownerID string) error {
	err := r.db.
		Where("item_id IN (?)",
			r.db.Model(&models.Item{}).Select("items.id").
				Joins("JOIN collections ON collections.id = items.collection_id").
				Where("collections.owner_id = ?", ownerID)).
		Delete(&models.ItemImage{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete images for user %s: %w", ownerID, err)
	}
	return nil
}

// UpdateOrders applies a validated order assignment in one pass.
func (r *GORMImageRepository) UpdateOrders(orders map[string]int, ts time.Time) error {
	for id, order := range orders {
		err := r.db.Model(&models.ItemImage{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"image_order": order, "updated_date": ts}).Error
		if err != nil {
			return fmt.Errorf("failed to update order for image %s: %w", id, err)
		}
	}
	return nil
}
