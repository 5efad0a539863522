package models

import "time"

// Default role names created at startup.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role is a named permission group referenced by users.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:20;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
