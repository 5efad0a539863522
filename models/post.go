package models

import "time"

// Post is an article created by a user. A post always owns exactly one
// image file stored under the upload directory while the row exists.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:50;uniqueIndex;not null" json:"title"`
	Slug       string    `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Image      string    `gorm:"size:255;not null" json:"image"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `json:"author,omitempty"`
	Category   Category  `json:"category,omitempty"`
	Comments   []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
