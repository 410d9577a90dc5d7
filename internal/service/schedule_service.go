package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// ScheduleService exposes timetable use cases.
type ScheduleService interface {
	ListBySection(ctx context.Context, section string) ([]dto.ScheduleResponse, error)
	Create(ctx context.Context, payload dto.ScheduleCreateRequest, facultyID uint) (dto.ScheduleResponse, error)
}

type scheduleService struct {
	schedule  repository.ScheduleRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewScheduleService builds a new schedule service.
func NewScheduleService(schedule repository.ScheduleRepository, validate *validator.Validate, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		schedule:  schedule,
		validator: validate,
		logger:    logger.With().Str("component", "schedule_service").Logger(),
	}
}

func (s *scheduleService) ListBySection(ctx context.Context, section string) ([]dto.ScheduleResponse, error) {
	entries, err := s.schedule.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}

	return dto.NewScheduleResponseSlice(entries), nil
}

func (s *scheduleService) Create(ctx context.Context, payload dto.ScheduleCreateRequest, facultyID uint) (dto.ScheduleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScheduleResponse{}, err
	}

	entry := models.ScheduleEntry{
		Subject:   payload.Subject,
		Type:      payload.Type,
		Section:   payload.Section,
		Date:      payload.Date,
		TimeStart: payload.TimeStart,
		Room:      payload.Room,
		FacultyID: facultyID,
	}
	if err := s.schedule.Create(ctx, &entry); err != nil {
		return dto.ScheduleResponse{}, err
	}

	s.logger.Info().Uint("schedule_id", entry.ID).Str("subject", entry.Subject).Msg("session scheduled")

	return dto.NewScheduleResponse(entry), nil
}
