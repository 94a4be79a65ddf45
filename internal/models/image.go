package models

import "time"

// ItemImage is a stored picture attached to an item. ImageURL embeds the
// serving prefix that was configured at upload time; ImageOrder is a dense
// 0-based position unique within the owning item's image set.
type ItemImage struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(512)"`
	ItemID      string    `json:"item_id" gorm:"index;type:varchar(36)"`
	ImageOrder  int       `json:"image_order"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}
