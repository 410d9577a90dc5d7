package models

import "time"

// Session types used by the timetable.
const (
	SessionTypeLecture  = "lecture"
	SessionTypeLab      = "lab"
	SessionTypeTutorial = "tutorial"
)

// ScheduleEntry represents one scheduled class meeting that faculty can
// mark attendance against. Date is stored as an ISO calendar day so the
// per-date feed can be ordered with a plain string comparison.
type ScheduleEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Type      string    `gorm:"size:32;not null;default:lecture" json:"type"`
	Section   string    `gorm:"size:32;index" json:"section"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	TimeStart string    `gorm:"size:8" json:"time_start"`
	Room      string    `gorm:"size:64" json:"room"`
	FacultyID uint      `gorm:"index" json:"faculty_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
