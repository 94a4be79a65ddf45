package repositories

import (
	"errors"
	"fmt"

	"curio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTagRepository is a GORM implementation of TagRepository. Association
// rows live in the item_tags join table and are manipulated directly so the
// idempotence and cleanup semantics stay explicit.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// Create creates a new tag. The unique index on name surfaces a storage
// error when two requests race to create the same tag; callers retry the
// lookup once before treating it as a conflict.
func (r *GORMTagRepository) Create(tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// GetByName retrieves a tag by its exact name.
func (r *GORMTagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag by name %s: %w", name, err)
	}
	return &tag, nil
}

// ListForItem retrieves all tags associated with an item.
func (r *GORMTagRepository) ListForItem(itemID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.
		Joins("JOIN item_tags ON item_tags.tag_id = tags.id").
		Where("item_tags.item_id = ?", itemID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for item %s: %w", itemID, err)
	}
	return tags, nil
}

// IsAssociated reports whether an association row already exists.
func (r *GORMTagRepository) IsAssociated(itemID, tagID string) (bool, error) {
	var count int64
	err := r.db.Table("item_tags").
		Where("item_id = ? AND tag_id = ?", itemID, tagID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check tag association: %w", err)
	}
	return count > 0, nil
}

// Associate links a tag to an item.
func (r *GORMTagRepository) Associate(itemID, tagID string) error {
	err := r.db.Table("item_tags").
		Create(map[string]interface{}{"item_id": itemID, "tag_id": tagID}).Error
	if err != nil {
		return fmt.Errorf("failed to associate tag %s with item %s: %w", tagID, itemID, err)
	}
	return nil
}

// ClearForItem removes all association rows of an item. Tags themselves are
// never deleted here.
func (r *GORMTagRepository) ClearForItem(itemID string) error {
	if err := r.db.Exec("DELETE FROM item_tags WHERE item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("failed to clear tags for item %s: %w", itemID, err)
	}
	return nil
}

// ClearByCollection removes association rows for every item of a collection.
func (r *GORMTagRepository) ClearByCollection(collectionID string) error {
	err := r.db.Exec(
		"DELETE FROM item_tags WHERE item_id IN (SELECT id FROM items WHERE collection_id = ?)",
		collectionID).Error
	if err != nil {
		return fmt.Errorf("failed to clear tags for collection %s: %w", collectionID, err)
	}
	return nil
}

// ClearByOwner removes association rows for every item owned by a user.
func (r *GORMTagRepository) ClearByOwner(ownerID string) error {
	err := r.db.Exec(
		`DELETE FROM item_tags WHERE item_id IN (
			SELECT items.id FROM items
			JOIN collections ON collections.id = items.collection_id
			WHERE collections.owner_id = ?)`,
		ownerID).Error
	if err != nil {
		return fmt.Errorf("failed to clear tags for user %s: %w", ownerID, err)
	}
	return nil
}

// DeleteUnused removes every tag with zero item associations and returns how
// many were removed. This is the maintenance sweep; detagged tags may sit
// orphaned between sweeps.
func (r *GORMTagRepository) DeleteUnused() (int64, error) {
	res := r.db.
		Where("id NOT IN (?)", r.db.Table("item_tags").Select("tag_id")).
		Delete(&models.Tag{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete unused tags: %w", res.Error)
	}
	return res.RowsAffected, nil
}
