package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// Event domain errors surfaced to the handler boundary.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrProfileNotFound   = errors.New("student profile not found")
	ErrBannerNotImage    = errors.New("banner must be an image")
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// EventService exposes event domain use cases.
type EventService interface {
	List(ctx context.Context) ([]dto.EventResponse, error)
	Create(ctx context.Context, payload dto.EventCreateRequest, banner *multipart.FileHeader) (dto.EventResponse, error)
	// Register enforces at-most-one registration per student and the seat
	// limit before recording a signup, returning the updated event.
	Register(ctx context.Context, eventID uint, identity Identity) (dto.EventResponse, error)
	ListRegistrations(ctx context.Context, eventID uint) ([]dto.RegistrationResponse, error)
}

type eventService struct {
	events    repository.EventRepository
	users     repository.UserRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewEventService builds a new event service.
func NewEventService(events repository.EventRepository, users repository.UserRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) EventService {
	return &eventService{
		events:    events,
		users:     users,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Create(ctx context.Context, payload dto.EventCreateRequest, banner *multipart.FileHeader) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		Title:       payload.Title,
		Description: payload.Description,
		Venue:       payload.Venue,
		Date:        payload.Date,
		TotalSeats:  payload.TotalSeats,
	}

	if banner != nil {
		url, err := s.uploadBanner(ctx, banner)
		if err != nil {
			return dto.EventResponse{}, err
		}
		event.BannerURL = url
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().Uint("event_id", event.ID).Msg("event created")

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Register(ctx context.Context, eventID uint, identity Identity) (dto.EventResponse, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrProfileNotFound
		}
		return dto.EventResponse{}, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}
		return dto.EventResponse{}, err
	}

	// Friendly pre-checks; the transaction below is the actual guard.
	exists, err := s.events.RegistrationExists(ctx, eventID, user.ID)
	if err != nil {
		return dto.EventResponse{}, err
	}
	if exists {
		return dto.EventResponse{}, ErrAlreadyRegistered
	}
	if event.SeatsLeft() == 0 {
		return dto.EventResponse{}, ErrEventFull
	}

	registration := models.EventRegistration{
		EventID:   eventID,
		StudentID: user.ID,
		Name:      user.Name,
		Email:     user.Email,
	}

	updated, err := s.events.Register(ctx, &registration)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatsExhausted):
			return dto.EventResponse{}, ErrEventFull
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return dto.EventResponse{}, ErrAlreadyRegistered
		default:
			return dto.EventResponse{}, err
		}
	}

	s.logger.Info().Uint("event_id", eventID).Uint("student_id", user.ID).Msg("event registration recorded")

	return dto.NewEventResponse(updated), nil
}

func (s *eventService) ListRegistrations(ctx context.Context, eventID uint) ([]dto.RegistrationResponse, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	registrations, err := s.events.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return dto.NewRegistrationResponseSlice(registrations), nil
}

func (s *eventService) uploadBanner(ctx context.Context, banner *multipart.FileHeader) (string, error) {
	file, err := banner.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open banner: %w", err)
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read banner: %w", err)
	}

	mime := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", ErrBannerNotImage
	}

	url, err := s.uploader.Upload(ctx, banner.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to upload banner: %w", err)
	}

	return url, nil
}
