package models

import "time"

// Attendance statuses form a closed set; anything else is rejected at
// marking time. The aggregator still counts only StatusPresent toward a
// subject's present tally.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusExcused = "excused"
	StatusLate    = "late"
)

// ValidStatus reports whether the given value belongs to the closed
// attendance status set.
func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusExcused, StatusLate:
		return true
	default:
		return false
	}
}

// AttendanceMark records one student's status for one session. Re-marking
// the same (schedule, student) pair overwrites via upsert.
type AttendanceMark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScheduleID uint      `gorm:"not null;uniqueIndex:idx_schedule_student" json:"schedule_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_schedule_student;index" json:"student_id"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	MarkedAt   time.Time `json:"marked_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
