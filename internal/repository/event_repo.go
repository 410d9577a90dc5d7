package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// ErrSeatsExhausted indicates the conditional seat claim matched no rows.
var ErrSeatsExhausted = errors.New("no seats left")

// EventRepository provides access to events and their registrations.
type EventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id uint) (models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	RegistrationExists(ctx context.Context, eventID, studentID uint) (bool, error)
	// Register claims a seat and records the signup in one transaction.
	// The seat claim is a single conditional increment guarded by the
	// current count, so two concurrent claims for the last seat cannot
	// both succeed; the (event_id, student_id) unique index rejects
	// concurrent duplicates.
	Register(ctx context.Context, registration *models.EventRegistration) (models.Event, error)
	ListRegistrations(ctx context.Context, eventID uint) ([]models.EventRegistration, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) RegistrationExists(ctx context.Context, eventID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *eventRepository) Register(ctx context.Context, registration *models.EventRegistration) (models.Event, error) {
	var event models.Event

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Event{}).
			Where("id = ? AND registered_count < total_seats", registration.EventID).
			UpdateColumn("registered_count", gorm.Expr("registered_count + 1"))
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrSeatsExhausted
		}

		if err := tx.Create(registration).Error; err != nil {
			return err
		}

		return tx.First(&event, registration.EventID).Error
	})
	if err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) ListRegistrations(ctx context.Context, eventID uint) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	return registrations, nil
}
