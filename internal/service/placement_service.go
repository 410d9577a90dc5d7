package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// Placement domain errors surfaced to the handler boundary.
var (
	ErrDriveNotFound  = errors.New("drive not found")
	ErrDriveClosed    = errors.New("drive is closed for applications")
	ErrAlreadyApplied = errors.New("already applied to this drive")
)

// PlacementService exposes recruitment drive use cases.
type PlacementService interface {
	ListDrives(ctx context.Context) ([]dto.DriveResponse, error)
	CreateDrive(ctx context.Context, payload dto.DriveCreateRequest) (dto.DriveResponse, error)
	Apply(ctx context.Context, driveID uint, studentID uint) (dto.ApplicationResponse, error)
	ListApplications(ctx context.Context, driveID uint) ([]dto.ApplicationResponse, error)
}

type placementService struct {
	placements repository.PlacementRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewPlacementService builds a new placement service.
func NewPlacementService(placements repository.PlacementRepository, validate *validator.Validate, logger zerolog.Logger) PlacementService {
	return &placementService{
		placements: placements,
		validator:  validate,
		logger:     logger.With().Str("component", "placement_service").Logger(),
	}
}

func (s *placementService) ListDrives(ctx context.Context) ([]dto.DriveResponse, error) {
	drives, err := s.placements.ListDrives(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewDriveResponseSlice(drives), nil
}

func (s *placementService) CreateDrive(ctx context.Context, payload dto.DriveCreateRequest) (dto.DriveResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DriveResponse{}, err
	}

	drive := models.Drive{
		Company:     payload.Company,
		Role:        payload.Role,
		PackageLPA:  payload.PackageLPA,
		Eligibility: payload.Eligibility,
		DriveDate:   payload.DriveDate,
		Status:      models.DriveOpen,
	}
	if err := s.placements.CreateDrive(ctx, &drive); err != nil {
		return dto.DriveResponse{}, err
	}

	s.logger.Info().Uint("drive_id", drive.ID).Str("company", drive.Company).Msg("drive created")

	return dto.NewDriveResponse(drive), nil
}

func (s *placementService) Apply(ctx context.Context, driveID uint, studentID uint) (dto.ApplicationResponse, error) {
	drive, err := s.placements.GetDrive(ctx, driveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrDriveNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if drive.Status != models.DriveOpen {
		return dto.ApplicationResponse{}, ErrDriveClosed
	}

	applied, err := s.placements.HasApplication(ctx, driveID, studentID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if applied {
		return dto.ApplicationResponse{}, ErrAlreadyApplied
	}

	application := models.DriveApplication{
		DriveID:   driveID,
		StudentID: studentID,
		Status:    "applied",
	}
	if err := s.placements.CreateApplication(ctx, &application); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ApplicationResponse{}, ErrAlreadyApplied
		}
		return dto.ApplicationResponse{}, err
	}

	s.logger.Info().Uint("drive_id", driveID).Uint("student_id", studentID).Msg("drive application recorded")

	return dto.ApplicationResponse{
		ID:        application.ID,
		DriveID:   application.DriveID,
		StudentID: application.StudentID,
		Status:    application.Status,
		AppliedAt: application.CreatedAt,
	}, nil
}

func (s *placementService) ListApplications(ctx context.Context, driveID uint) ([]dto.ApplicationResponse, error) {
	if _, err := s.placements.GetDrive(ctx, driveID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, err
	}

	applications, err := s.placements.ListApplications(ctx, driveID)
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationResponseSlice(applications), nil
}
