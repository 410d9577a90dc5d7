package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// ScheduleRepository provides access to scheduled class sessions.
type ScheduleRepository interface {
	GetByID(ctx context.Context, id uint) (models.ScheduleEntry, error)
	// GetByIDs fetches exactly the given session set, newest date first.
	GetByIDs(ctx context.Context, ids []uint) ([]models.ScheduleEntry, error)
	ListBySection(ctx context.Context, section string) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository constructs a schedule repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return models.ScheduleEntry{}, err
	}

	return entry, nil
}

func (r *scheduleRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.ScheduleEntry, error) {
	if len(ids) == 0 {
		return []models.ScheduleEntry{}, nil
	}

	var entries []models.ScheduleEntry
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *scheduleRepository) ListBySection(ctx context.Context, section string) ([]models.ScheduleEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.ScheduleEntry{})
	if section != "" {
		query = query.Where("section = ?", section)
	}

	var entries []models.ScheduleEntry
	if err := query.Order("date ASC, time_start ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *scheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
