package models

import "time"

// Roles recognised by the route guards.
const (
	RoleStudent   = "student"
	RoleFaculty   = "faculty"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// User represents a login account. Attendance identity is resolved through
// the roster directory, not through this table; the account is only
// consulted when a token carries no email claim.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
