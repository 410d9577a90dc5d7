package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// BatchCreateRequest is the payload for creating an administrative batch.
type BatchCreateRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Year       int    `json:"year" validate:"required,gte=2000"`
	Department string `json:"department"`
}

// BatchResponse is a batch with its current roster size.
type BatchResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Department  string    `json:"department"`
	RosterCount int64     `json:"roster_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBatchResponse converts a model and its roster count into a DTO.
func NewBatchResponse(model models.Batch, rosterCount int64) BatchResponse {
	return BatchResponse{
		ID:          model.ID,
		Name:        model.Name,
		Year:        model.Year,
		Department:  model.Department,
		RosterCount: rosterCount,
		CreatedAt:   model.CreatedAt,
	}
}

// RosterImportEntry is one student row inside a bulk import.
type RosterImportEntry struct {
	Name    string `json:"name" validate:"required"`
	RollNo  string `json:"roll_no" validate:"required"`
	Section string `json:"section" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// RosterImportRequest bulk-imports roster entries into a batch.
type RosterImportRequest struct {
	Entries []RosterImportEntry `json:"entries" validate:"required,min=1,dive"`
}

// RosterImportResult reports how many entries were added and how many were
// skipped as duplicates.
type RosterImportResult struct {
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
}
