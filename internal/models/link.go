package models

import "time"

// Link maps a short code to its target URL. Resolution is public;
// mutation is restricted to the owning user.
type Link struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ShortCode string    `json:"shortCode" gorm:"column:code;uniqueIndex;type:varchar(30);not null" validate:"required"`
	TargetURL string    `json:"targetURL" gorm:"column:target_url;type:text;not null" validate:"required,url"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
