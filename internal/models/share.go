package models

import "time"

// CollectionShare grants public read-only access to one collection while
// enabled. The token is unique across all shares; one share per collection.
type CollectionShare struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CollectionID string    `json:"collection_id" gorm:"uniqueIndex;type:varchar(36)"`
	Token        string    `json:"token" gorm:"uniqueIndex;type:varchar(64)"`
	IsEnabled    bool      `json:"is_enabled"`
	CreatedDate  time.Time `json:"created_date"`
	UpdatedDate  time.Time `json:"updated_date"`
}
