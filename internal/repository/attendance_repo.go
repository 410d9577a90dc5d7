package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// JoinedMark is an attendance mark flattened with its session metadata,
// used by the legacy roster-less aggregation path.
type JoinedMark struct {
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Date    string `json:"date"`
}

// AttendanceRepository provides access to attendance marks.
type AttendanceRepository interface {
	ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceMark, error)
	ListBySchedule(ctx context.Context, scheduleID uint) ([]models.AttendanceMark, error)
	// Upsert writes marks for one session; an existing (schedule, student)
	// pair is overwritten rather than duplicated.
	Upsert(ctx context.Context, marks []models.AttendanceMark) error
	// ListJoinedByStudent joins marks directly to their sessions, keyed by
	// the caller's account id. Legacy integrations assumed student id
	// equals account id; this path exists for them.
	ListJoinedByStudent(ctx context.Context, studentID uint) ([]JoinedMark, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.AttendanceMark, error) {
	var marks []models.AttendanceMark
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *attendanceRepository) ListBySchedule(ctx context.Context, scheduleID uint) ([]models.AttendanceMark, error) {
	var marks []models.AttendanceMark
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Find(&marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *attendanceRepository) Upsert(ctx context.Context, marks []models.AttendanceMark) error {
	if len(marks) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range marks {
		marks[i].MarkedAt = now
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_at", "updated_at"}),
		}).
		Create(&marks).Error
}

func (r *attendanceRepository) ListJoinedByStudent(ctx context.Context, studentID uint) ([]JoinedMark, error) {
	var rows []JoinedMark
	if err := r.db.WithContext(ctx).
		Table("attendance_marks").
		Select("schedule_entries.subject AS subject, attendance_marks.status AS status, schedule_entries.date AS date").
		Joins("JOIN schedule_entries ON schedule_entries.id = attendance_marks.schedule_id").
		Where("attendance_marks.student_id = ?", studentID).
		Order("schedule_entries.date DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
