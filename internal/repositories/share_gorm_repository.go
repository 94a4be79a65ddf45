package repositories

import (
	"errors"
	"fmt"
	"time"

	"curio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShareRepository is a GORM implementation of ShareRepository.
type GORMShareRepository struct {
	db *gorm.DB
}

// NewGORMShareRepository creates a new instance of GORMShareRepository.
func NewGORMShareRepository(db *gorm.DB) *GORMShareRepository {
	return &GORMShareRepository{db: db}
}

// Create creates a new share record, assigning an ID and timestamps.
func (r *GORMShareRepository) Create(share *models.CollectionShare) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	share.CreatedDate = now
	share.UpdatedDate = now
	if err := r.db.Create(share).Error; err != nil {
		return fmt.Errorf("failed to create share: %w", err)
	}
	return nil
}

// GetByCollection retrieves the share of a collection regardless of state.
func (r *GORMShareRepository) GetByCollection(collectionID string) (*models.CollectionShare, error) {
	var share models.CollectionShare
	if err := r.db.First(&share, "collection_id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get share for collection %s: %w", collectionID, err)
	}
	return &share, nil
}

// GetEnabledByToken resolves a token only while its share is enabled.
// Disabled and unknown tokens are indistinguishable to the caller.
func (r *GORMShareRepository) GetEnabledByToken(token string) (*models.CollectionShare, error) {
	var share models.CollectionShare
	err := r.db.First(&share, "token = ? AND is_enabled = ?", token, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}
	return &share, nil
}

// Save writes all fields of an existing share back to the database.
func (r *GORMShareRepository) Save(share *models.CollectionShare) error {
	share.UpdatedDate = time.Now().UTC()
	res := r.db.Save(share)
	if res.Error != nil {
		return fmt.Errorf("failed to update share: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByCollection removes the share row of a collection, if any.
func (r *GORMShareRepository) DeleteByCollection(collectionID string) error {
	if err := r.db.Delete(&models.CollectionShare{}, "collection_id = ?", collectionID).Error; err != nil {
		return fmt.Errorf("failed to delete share for collection %s: %w", collectionID, err)
	}
	return nil
}

// DeleteByOwner removes the share rows of every collection owned by a user.
func (r *GORMShareRepository) DeleteByOwner(ownerID string) error {
	err := r.db.
		Where("collection_id IN (?)",
			r.db.Model(&models.Collection{}).Select("id").Where("owner_id = ?", ownerID)).
		Delete(&models.CollectionShare{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete shares for user %s: %w", ownerID, err)
	}
	return nil
}
