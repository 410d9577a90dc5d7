package models

import "time"

// Drive states.
const (
	DriveOpen   = "open"
	DriveClosed = "closed"
)

// Drive is a recruitment opportunity posted by the placement office.
type Drive struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Company     string    `gorm:"size:255;not null" json:"company"`
	Role        string    `gorm:"size:255;not null" json:"role"`
	PackageLPA  float64   `json:"package_lpa"`
	Eligibility string    `gorm:"type:text" json:"eligibility"`
	DriveDate   string    `gorm:"size:10;index" json:"drive_date"`
	Status      string    `gorm:"size:16;not null;default:open" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DriveApplication records one student's application to one drive.
type DriveApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DriveID   uint      `gorm:"not null;uniqueIndex:idx_drive_student" json:"drive_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_drive_student;index" json:"student_id"`
	Status    string    `gorm:"size:32;not null;default:applied" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
