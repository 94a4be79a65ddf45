package repositories

import (
	"time"

	"curio/internal/models"
)

// ImageRepository defines the interface for item image data access.
// Ownership is transitive through item and collection to the owning user.
type ImageRepository interface {
	Create(image *models.ItemImage) error
	GetOwned(userID, imageID string) (*models.ItemImage, error)
	ListByItem(itemID string) ([]models.ItemImage, error)
	ListByCollection(collectionID string) ([]models.ItemImage, error)
	ListByOwner(ownerID string) ([]models.ItemImage, error)
	Delete(id string) error
	DeleteByIDs(ids []string) error
	DeleteByItem(itemID string) error
	DeleteByCollection(collectionID string) error
	DeleteByOwner(ownerID string) error
	UpdateOrders(orders map[string]int, ts time.Time) error
}
