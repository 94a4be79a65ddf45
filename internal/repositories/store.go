package repositories

import (
	"errors"
	"fmt"

	"curio/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository lookup that matches nothing.
// Ownership-scoped lookups return it both for rows that do not exist and for
// rows owned by someone else, so the two cases are indistinguishable upstream.
var ErrNotFound = errors.New("resource not found")

// Store bundles all repositories behind one transactional unit of work.
type Store interface {
	Users() UserRepository
	Collections() CollectionRepository
	Items() ItemRepository
	Images() ImageRepository
	Tags() TagRepository
	Shares() ShareRepository

	// InTransaction runs fn against a Store bound to a single database
	// transaction. fn returning an error rolls everything back.
	InTransaction(fn func(Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// AutoMigrate creates or updates the schema for all models.
func (s *GORMStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.Item{},
		&models.ItemImage{},
		&models.Tag{},
		&models.CollectionShare{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *GORMStore) Users() UserRepository             { return &GORMUserRepository{db: s.db} }
func (s *GORMStore) Collections() CollectionRepository { return &GORMCollectionRepository{db: s.db} }
func (s *GORMStore) Items() ItemRepository             { return &GORMItemRepository{db: s.db} }
func (s *GORMStore) Images() ImageRepository           { return &GORMImageRepository{db: s.db} }
func (s *GORMStore) Tags() TagRepository               { return &GORMTagRepository{db: s.db} }
func (s *GORMStore) Shares() ShareRepository           { return &GORMShareRepository{db: s.db} }

// InTransaction rebinds the Store to a transaction for the duration of fn.
func (s *GORMStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
