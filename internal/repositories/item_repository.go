package repositories

import (
	"time"

	"curio/internal/models"
)

// ItemRepository defines the interface for item data access. Ownership is
// transitive: GetOwned joins through the item's collection to its owner.
type ItemRepository interface {
	Create(item *models.Item) error
	GetOwned(userID, itemID string) (*models.Item, error)
	GetInCollection(collectionID, itemID string) (*models.Item, error)
	ListByCollection(collectionID string) ([]models.Item, error)
	Save(item *models.Item) error
	Delete(id string) error
	DeleteByCollection(collectionID string) error
	DeleteByOwner(ownerID string) error
	NextOrder(collectionID string) (int, error)
	UpdateOrders(orders map[string]int, ts time.Time) error
	Touch(id string, ts time.Time) error
}
