package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// RosterRepository provides access to the student directory.
type RosterRepository interface {
	GetByEmail(ctx context.Context, email string) (models.RosterEntry, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.RosterEntry, error)
	BulkInsert(ctx context.Context, entries []models.RosterEntry) (inserted int64, err error)
	CountByBatch(ctx context.Context, batchID uint) (int64, error)
}

type rosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository constructs a roster repository.
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

// GetByEmail matches the directory email exactly; lookup is case-sensitive.
func (r *rosterRepository) GetByEmail(ctx context.Context, email string) (models.RosterEntry, error) {
	var entry models.RosterEntry
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&entry).Error; err != nil {
		return models.RosterEntry{}, err
	}

	return entry, nil
}

func (r *rosterRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.RosterEntry, error) {
	if len(ids) == 0 {
		return []models.RosterEntry{}, nil
	}

	var entries []models.RosterEntry
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// BulkInsert adds directory entries, skipping any whose email already
// exists. Returns the number of rows actually inserted.
func (r *rosterRepository) BulkInsert(ctx context.Context, entries []models.RosterEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&entries)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *rosterRepository) CountByBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RosterEntry{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
