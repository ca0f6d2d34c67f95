package models

import "time"

// Comment is a (possibly threaded) comment on a post. ParentID is nil for
// top-level comments. Deleting a post or a parent comment cascades to the
// dependent comments. IsBlocked is recomputed from Text on every save.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	ParentID  *uint     `gorm:"index" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"-"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	IsBlocked bool      `json:"is_blocked"`
	DtCreated time.Time `gorm:"autoCreateTime" json:"-"`
	DtUpdated time.Time `gorm:"autoUpdateTime" json:"-"`
}
