package repositories

import (
	"time"

	"curio/internal/models"
)

// CollectionRepository defines the interface for collection data access.
// All reads are scoped to the owning user; a collection that exists but
// belongs to someone else is reported as ErrNotFound.
type CollectionRepository interface {
	Create(collection *models.Collection) error
	GetOwned(ownerID, id string) (*models.Collection, error)
	GetByID(id string) (*models.Collection, error)
	ListByOwner(ownerID string) ([]models.Collection, error)
	Save(collection *models.Collection) error
	Delete(id string) error
	DeleteByOwner(ownerID string) error
	NextOrder(ownerID string) (int, error)
	UpdateOrders(orders map[string]int, ts time.Time) error
	Touch(id string, ts time.Time) error
}
