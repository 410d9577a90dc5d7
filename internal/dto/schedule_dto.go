package dto

import "github.com/noah-isme/campus-go-api/internal/models"

// ScheduleCreateRequest is the payload for scheduling a class session.
type ScheduleCreateRequest struct {
	Subject   string `json:"subject" validate:"required,min=2"`
	Type      string `json:"type" validate:"required,oneof=lecture lab tutorial"`
	Section   string `json:"section" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeStart string `json:"time_start" validate:"required"`
	Room      string `json:"room"`
}

// ScheduleResponse is the serialized representation of a session.
type ScheduleResponse struct {
	ID        uint   `json:"id"`
	Subject   string `json:"subject"`
	Type      string `json:"type"`
	Section   string `json:"section"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	Room      string `json:"room"`
}

// NewScheduleResponse converts a model into a DTO.
func NewScheduleResponse(model models.ScheduleEntry) ScheduleResponse {
	return ScheduleResponse{
		ID:        model.ID,
		Subject:   model.Subject,
		Type:      model.Type,
		Section:   model.Section,
		Date:      model.Date,
		TimeStart: model.TimeStart,
		Room:      model.Room,
	}
}

// NewScheduleResponseSlice converts a slice of models into DTOs.
func NewScheduleResponseSlice(entries []models.ScheduleEntry) []ScheduleResponse {
	responses := make([]ScheduleResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewScheduleResponse(entry))
	}

	return responses
}
