package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// BookResponse is the serialized representation of a library title.
type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// NewBookResponse converts a model into a DTO.
func NewBookResponse(model models.Book) BookResponse {
	return BookResponse{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		ISBN:            model.ISBN,
		TotalCopies:     model.TotalCopies,
		AvailableCopies: model.AvailableCopies,
	}
}

// NewBookResponseSlice converts a slice of models into DTOs.
func NewBookResponseSlice(books []models.Book) []BookResponse {
	responses := make([]BookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, NewBookResponse(book))
	}

	return responses
}

// BorrowRequestCreate is the payload for requesting a book.
type BorrowRequestCreate struct {
	BookID uint `json:"book_id" validate:"required"`
}

// RequestStatusUpdate is the librarian's decision on a pending request.
type RequestStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// BorrowRequestResponse is the serialized representation of a request.
type BorrowRequestResponse struct {
	ID        uint         `json:"id"`
	Book      BookResponse `json:"book"`
	StudentID uint         `json:"student_id"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewBorrowRequestResponse converts a model into a DTO.
func NewBorrowRequestResponse(model models.BookRequest) BorrowRequestResponse {
	return BorrowRequestResponse{
		ID:        model.ID,
		Book:      NewBookResponse(model.Book),
		StudentID: model.StudentID,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}
}

// IssuedBookResponse is one active or past loan.
type IssuedBookResponse struct {
	ID         uint         `json:"id"`
	Book       BookResponse `json:"book"`
	StudentID  uint         `json:"student_id"`
	IssuedAt   time.Time    `json:"issued_at"`
	DueDate    time.Time    `json:"due_date"`
	ReturnedAt *time.Time   `json:"returned_at"`
	Overdue    bool         `json:"overdue"`
}

// NewIssuedBookResponse converts a loan into a DTO, flagging overdue loans
// relative to the given reference time.
func NewIssuedBookResponse(model models.IssuedBook, reference time.Time) IssuedBookResponse {
	return IssuedBookResponse{
		ID:         model.ID,
		Book:       NewBookResponse(model.Book),
		StudentID:  model.StudentID,
		IssuedAt:   model.IssuedAt,
		DueDate:    model.DueDate,
		ReturnedAt: model.ReturnedAt,
		Overdue:    model.Overdue(reference),
	}
}
