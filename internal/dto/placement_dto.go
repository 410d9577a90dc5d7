package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// DriveCreateRequest is the payload for posting a recruitment drive.
type DriveCreateRequest struct {
	Company     string  `json:"company" validate:"required,min=2"`
	Role        string  `json:"role" validate:"required,min=2"`
	PackageLPA  float64 `json:"package_lpa" validate:"omitempty,gte=0"`
	Eligibility string  `json:"eligibility"`
	DriveDate   string  `json:"drive_date" validate:"required,datetime=2006-01-02"`
}

// DriveResponse is the serialized representation of a drive.
type DriveResponse struct {
	ID          uint      `json:"id"`
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	PackageLPA  float64   `json:"package_lpa"`
	Eligibility string    `json:"eligibility"`
	DriveDate   string    `json:"drive_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDriveResponse converts a model into a DTO.
func NewDriveResponse(model models.Drive) DriveResponse {
	return DriveResponse{
		ID:          model.ID,
		Company:     model.Company,
		Role:        model.Role,
		PackageLPA:  model.PackageLPA,
		Eligibility: model.Eligibility,
		DriveDate:   model.DriveDate,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
	}
}

// NewDriveResponseSlice converts a slice of models into DTOs.
func NewDriveResponseSlice(drives []models.Drive) []DriveResponse {
	responses := make([]DriveResponse, 0, len(drives))
	for _, drive := range drives {
		responses = append(responses, NewDriveResponse(drive))
	}

	return responses
}

// ApplicationResponse is one applicant row for the placement office view.
type ApplicationResponse struct {
	ID        uint      `json:"id"`
	DriveID   uint      `json:"drive_id"`
	StudentID uint      `json:"student_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// NewApplicationResponseSlice converts application models into DTOs.
func NewApplicationResponseSlice(applications []models.DriveApplication) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, ApplicationResponse{
			ID:        application.ID,
			DriveID:   application.DriveID,
			StudentID: application.StudentID,
			Status:    application.Status,
			AppliedAt: application.CreatedAt,
		})
	}

	return responses
}
