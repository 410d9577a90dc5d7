package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event represents a campus event with a fixed number of seats.
type Event struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"size:255;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	Venue           string            `gorm:"size:255" json:"venue"`
	Date            string            `gorm:"size:10;not null;index" json:"date"`
	TotalSeats      int               `gorm:"not null" json:"total_seats"`
	RegisteredCount int               `gorm:"not null;default:0" json:"registered_count"`
	BannerURL       string            `gorm:"size:512" json:"banner_url"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SeatsLeft returns the number of unclaimed seats.
func (e Event) SeatsLeft() int {
	left := e.TotalSeats - e.RegisteredCount
	if left < 0 {
		return 0
	}
	return left
}

// EventRegistration records one student's signup for one event. The unique
// index on (event_id, student_id) is the actual duplicate guard; the
// existence pre-check in the service only produces a friendlier message.
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_student" json:"event_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_event_student;index" json:"student_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
