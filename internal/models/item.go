package models

import "time"

// Item is a single entry of a collection. ItemOrder is a dense 0-based
// position unique within the owning collection's item set.
type Item struct {
	ID           string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string      `json:"name" gorm:"index;type:varchar(100)"`
	Description  string      `json:"description" gorm:"type:varchar(500)"`
	CollectionID string      `json:"collection_id" gorm:"index;type:varchar(36)"`
	ItemOrder    int         `json:"item_order"`
	CreatedDate  time.Time   `json:"created_date"`
	UpdatedDate  time.Time   `json:"updated_date"`
	Images       []ItemImage `json:"images,omitempty" gorm:"foreignKey:ItemID"`
	Tags         []Tag       `json:"tags,omitempty" gorm:"many2many:item_tags"`
}
