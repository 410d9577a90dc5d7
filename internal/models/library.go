package models

import "time"

// Book request states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Book is a title held by the library.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Author          string    `gorm:"size:255" json:"author"`
	ISBN            string    `gorm:"size:32;uniqueIndex" json:"isbn"`
	TotalCopies     int       `gorm:"not null" json:"total_copies"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookRequest is a student's ask to borrow a book, pending librarian review.
type BookRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Book Book `json:"book"`
}

// IssuedBook is produced when a request is approved.
type IssuedBook struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	StudentID  uint       `gorm:"not null;index" json:"student_id"`
	IssuedAt   time.Time  `json:"issued_at"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Book Book `json:"book"`
}

// Overdue reports whether the loan has passed its due date without a return.
func (i IssuedBook) Overdue(reference time.Time) bool {
	return i.ReturnedAt == nil && reference.After(i.DueDate)
}
