package models

// Tag is a globally shared label. Names are unique system-wide; tags have no
// owner and associate with items many-to-many through item_tags.
type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
}
