package repositories

import "curio/internal/models"

// ShareRepository defines the interface for collection share data access.
type ShareRepository interface {
	Create(share *models.CollectionShare) error
	GetByCollection(collectionID string) (*models.CollectionShare, error)
	GetEnabledByToken(token string) (*models.CollectionShare, error)
	Save(share *models.CollectionShare) error
	DeleteByCollection(collectionID string) error
	DeleteByOwner(ownerID string) error
}
