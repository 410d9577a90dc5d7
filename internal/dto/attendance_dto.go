package dto

// StudentInfo is the roster identity echoed back with a summary.
type StudentInfo struct {
	Name    string `json:"name"`
	RollNo  string `json:"roll_no"`
	Section string `json:"section"`
}

// SubjectSummary aggregates one subject's marks. present + absent always
// equals total, and percentage is rounded to one decimal place.
type SubjectSummary struct {
	Subject    string  `json:"subject"`
	Type       string  `json:"type"`
	Section    string  `json:"section"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// FeedEntry is one row of the reverse-chronological activity feed.
type FeedEntry struct {
	Subject string `json:"subject"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Room    string `json:"room"`
	Status  string `json:"status"`
}

// AttendanceSummaryResponse is the full aggregation payload. Student is
// null when the caller has no roster entry; that is a valid state, not an
// error.
type AttendanceSummaryResponse struct {
	Student      *StudentInfo     `json:"student"`
	Subjects     []SubjectSummary `json:"subjects"`
	PerDate      []FeedEntry      `json:"perDate"`
	TotalPresent int              `json:"totalPresent"`
	TotalClasses int              `json:"totalClasses"`
	OverallPct   float64          `json:"overallPct"`
}

// LegacySubjectSummary is the shape returned by the roster-less endpoint
// kept for integrations that assumed student id equals account id.
type LegacySubjectSummary struct {
	Subject    string  `json:"subject"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// MarkRecord is one student's status inside a marking request.
type MarkRecord struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent excused late"`
}

// MarkAttendanceRequest carries a full session marking.
type MarkAttendanceRequest struct {
	ScheduleID uint         `json:"schedule_id" validate:"required"`
	Records    []MarkRecord `json:"records" validate:"required,min=1,dive"`
}

// SessionMark is one row of the faculty per-session view.
type SessionMark struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	RollNo    string `json:"roll_no"`
	Status    string `json:"status"`
}
