package models

import "time"

// User represents an account holder of the shortening service.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FirstName string    `json:"firstName" gorm:"type:varchar(55);not null" validate:"required"`
	LastName  string    `json:"lastName" gorm:"type:varchar(55)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:text;not null"` // HMAC-SHA256 digest, hex-encoded
	Salt      string    `json:"-" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
