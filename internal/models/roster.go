package models

import "time"

// Batch groups roster entries imported together by the administration.
type Batch struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Year       int       `gorm:"not null" json:"year"`
	Department string    `gorm:"size:255" json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Roster []RosterEntry `json:"-"`
}

// RosterEntry identifies a student in the directory, independent of any
// login account. Attendance marks reference roster ids; immutable once
// marks point at it.
type RosterEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BatchID   uint      `gorm:"index" json:"batch_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	RollNo    string    `gorm:"size:64;not null" json:"roll_no"`
	Section   string    `gorm:"size:32;index" json:"section"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
