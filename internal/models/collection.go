package models

import "time"

// Collection groups items for one user. CollectionOrder is a dense 0-based
// position unique within the owner's collection set. OwnerID never changes
// after creation.
type Collection struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string    `json:"name" gorm:"index;type:varchar(100)"`
	Description     string    `json:"description" gorm:"type:varchar(500)"`
	OwnerID         string    `json:"owner_id" gorm:"index;type:varchar(36)"`
	CollectionOrder int       `json:"collection_order"`
	CreatedDate     time.Time `json:"created_date"`
	UpdatedDate     time.Time `json:"updated_date"`
	Items           []Item    `json:"items,omitempty" gorm:"foreignKey:CollectionID"`
}
