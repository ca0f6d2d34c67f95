package models

import "time"

// Post is a blog entry. Title and content are both optional, but a non-empty
// title must be unique across posts. IsBlocked is recomputed from title and
// content on every save; blocked posts stay in the database but are hidden
// from detail and list reads.
type Post struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           *string   `gorm:"size:128;uniqueIndex" json:"title"`
	Content         *string   `json:"content"`
	Photo           string    `json:"photo"`
	IsBlocked       bool      `json:"is_blocked"`
	EnableAutoReply bool      `json:"-"`
	DtCreated       time.Time `gorm:"autoCreateTime" json:"dt_created"`
	DtUpdated       time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TitleOrEmpty returns the title, or "" when unset.
func (p *Post) TitleOrEmpty() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// ContentOrEmpty returns the content, or "" when unset.
func (p *Post) ContentOrEmpty() string {
	if p.Content == nil {
		return ""
	}
	return *p.Content
}
