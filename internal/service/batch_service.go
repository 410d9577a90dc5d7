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

// ErrBatchNotFound indicates the referenced batch does not exist.
var ErrBatchNotFound = errors.New("batch not found")

// BatchService exposes batch administration use cases.
type BatchService interface {
	List(ctx context.Context) ([]dto.BatchResponse, error)
	Create(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error)
	// ImportRoster bulk-adds directory entries; duplicates already in the
	// directory are skipped and reported, not fatal.
	ImportRoster(ctx context.Context, batchID uint, payload dto.RosterImportRequest) (dto.RosterImportResult, error)
}

type batchService struct {
	batches   repository.BatchRepository
	roster    repository.RosterRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBatchService builds a new batch service.
func NewBatchService(batches repository.BatchRepository, roster repository.RosterRepository, validate *validator.Validate, logger zerolog.Logger) BatchService {
	return &batchService{
		batches:   batches,
		roster:    roster,
		validator: validate,
		logger:    logger.With().Str("component", "batch_service").Logger(),
	}
}

func (s *batchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		count, err := s.roster.CountByBatch(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewBatchResponse(batch, count))
	}

	return responses, nil
}

func (s *batchService) Create(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	batch := models.Batch{
		Name:       payload.Name,
		Year:       payload.Year,
		Department: payload.Department,
	}
	if err := s.batches.Create(ctx, &batch); err != nil {
		return dto.BatchResponse{}, err
	}

	s.logger.Info().Uint("batch_id", batch.ID).Msg("batch created")

	return dto.NewBatchResponse(batch, 0), nil
}

func (s *batchService) ImportRoster(ctx context.Context, batchID uint, payload dto.RosterImportRequest) (dto.RosterImportResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RosterImportResult{}, err
	}

	if _, err := s.batches.GetByID(ctx, batchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterImportResult{}, ErrBatchNotFound
		}
		return dto.RosterImportResult{}, err
	}

	entries := make([]models.RosterEntry, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		entries = append(entries, models.RosterEntry{
			BatchID: batchID,
			Name:    entry.Name,
			RollNo:  entry.RollNo,
			Section: entry.Section,
			Email:   entry.Email,
		})
	}

	inserted, err := s.roster.BulkInsert(ctx, entries)
	if err != nil {
		return dto.RosterImportResult{}, err
	}

	result := dto.RosterImportResult{
		Inserted: inserted,
		Skipped:  int64(len(entries)) - inserted,
	}

	s.logger.Info().
		Uint("batch_id", batchID).
		Int64("inserted", result.Inserted).
		Int64("skipped", result.Skipped).
		Msg("roster imported")

	return result, nil
}
