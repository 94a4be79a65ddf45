package repositories

import "curio/internal/models"

// TagRepository defines the interface for the global tag namespace and the
// item/tag association table.
type TagRepository interface {
	Create(tag *models.Tag) error
	GetByName(name string) (*models.Tag, error)
	ListForItem(itemID string) ([]models.Tag, error)
	IsAssociated(itemID, tagID string) (bool, error)
	Associate(itemID, tagID string) error
	ClearForItem(itemID string) error
	ClearByCollection(collectionID string) error
	ClearByOwner(ownerID string) error
	DeleteUnused() (int64, error)
}
