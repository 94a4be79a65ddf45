package models

import "time"

// User represents an account holder. Each user owns zero or more collections.
type User struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string       `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string       `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string       `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never plaintext after registration
	CreatedDate time.Time    `json:"created_date"`
	UpdatedDate time.Time    `json:"updated_date"`
	Collections []Collection `json:"collections,omitempty" gorm:"foreignKey:OwnerID"`
}
