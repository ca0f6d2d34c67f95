package models

import "time"

// Token is the opaque bearer credential issued at registration.
// Exactly one token exists per user; tokens never expire.
type Token struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"-"`
}
