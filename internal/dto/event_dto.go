package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// EventCreateRequest describes the multipart payload for creating an event.
type EventCreateRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=3"`
	Description string `form:"description" json:"description"`
	Venue       string `form:"venue" json:"venue"`
	Date        string `form:"date" json:"date" validate:"required,datetime=2006-01-02"`
	TotalSeats  int    `form:"total_seats" json:"total_seats" validate:"required,gt=0"`
}

// EventResponse is the serialized representation returned to API clients.
type EventResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Venue           string    `json:"venue"`
	Date            string    `json:"date"`
	TotalSeats      int       `json:"total_seats"`
	RegisteredCount int       `json:"registered_count"`
	SeatsLeft       int       `json:"seats_left"`
	BannerURL       string    `json:"banner_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.Event) EventResponse {
	return EventResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Venue:           model.Venue,
		Date:            model.Date,
		TotalSeats:      model.TotalSeats,
		RegisteredCount: model.RegisteredCount,
		SeatsLeft:       model.SeatsLeft(),
		BannerURL:       model.BannerURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewEventResponseSlice converts a slice of models into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}

	return responses
}

// RegistrationResponse is one registrant row for the admin view.
type RegistrationResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewRegistrationResponseSlice converts registration models into DTOs.
func NewRegistrationResponseSlice(registrations []models.EventRegistration) []RegistrationResponse {
	responses := make([]RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, RegistrationResponse{
			ID:           registration.ID,
			StudentID:    registration.StudentID,
			Name:         registration.Name,
			Email:        registration.Email,
			RegisteredAt: registration.CreatedAt,
		})
	}

	return responses
}
