package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// PlacementRepository provides access to recruitment drives and applications.
type PlacementRepository interface {
	ListDrives(ctx context.Context) ([]models.Drive, error)
	GetDrive(ctx context.Context, id uint) (models.Drive, error)
	CreateDrive(ctx context.Context, drive *models.Drive) error
	HasApplication(ctx context.Context, driveID, studentID uint) (bool, error)
	CreateApplication(ctx context.Context, application *models.DriveApplication) error
	ListApplications(ctx context.Context, driveID uint) ([]models.DriveApplication, error)
}

type placementRepository struct {
	db *gorm.DB
}

// NewPlacementRepository constructs a placement repository.
func NewPlacementRepository(db *gorm.DB) PlacementRepository {
	return &placementRepository{db: db}
}

func (r *placementRepository) ListDrives(ctx context.Context) ([]models.Drive, error) {
	var drives []models.Drive
	if err := r.db.WithContext(ctx).Order("drive_date ASC").Find(&drives).Error; err != nil {
		return nil, err
	}

	return drives, nil
}

func (r *placementRepository) GetDrive(ctx context.Context, id uint) (models.Drive, error) {
	var drive models.Drive
	if err := r.db.WithContext(ctx).First(&drive, id).Error; err != nil {
		return models.Drive{}, err
	}

	return drive, nil
}

func (r *placementRepository) CreateDrive(ctx context.Context, drive *models.Drive) error {
	return r.db.WithContext(ctx).Create(drive).Error
}

func (r *placementRepository) HasApplication(ctx context.Context, driveID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DriveApplication{}).
		Where("drive_id = ? AND student_id = ?", driveID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *placementRepository) CreateApplication(ctx context.Context, application *models.DriveApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *placementRepository) ListApplications(ctx context.Context, driveID uint) ([]models.DriveApplication, error) {
	var applications []models.DriveApplication
	if err := r.db.WithContext(ctx).
		Where("drive_id = ?", driveID).
		Order("created_at ASC").
		Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}
