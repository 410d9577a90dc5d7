package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Batch{},
		&models.RosterEntry{},
		&models.ScheduleEntry{},
		&models.AttendanceMark{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Book{},
		&models.BookRequest{},
		&models.IssuedBook{},
		&models.Drive{},
		&models.DriveApplication{},
		&models.Notification{},
	))

	return db
}

func newAttendanceService(t *testing.T, db *gorm.DB, cache *redis.Client, ttl time.Duration) AttendanceService {
	t.Helper()

	return NewAttendanceService(
		repository.NewRosterRepository(db),
		repository.NewScheduleRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		cache,
		ttl,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
}

func TestGetMySummaryAggregation(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)
	ctx := context.Background()

	entry := models.RosterEntry{Name: "Maya Iyer", RollNo: "CS21B042", Section: "A", Email: "maya.iyer@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	sessions := []models.ScheduleEntry{
		{ID: 110, Subject: "Math", Type: models.SessionTypeLecture, Section: "A", Date: "2026-02-10", TimeStart: "09:00", Room: "L-101"},
		{ID: 111, Subject: "Math", Type: models.SessionTypeLecture, Section: "A", Date: "2026-02-12", TimeStart: "09:00", Room: "L-101"},
		{ID: 112, Subject: "Physics", Type: models.SessionTypeLab, Section: "A", Date: "2026-02-11", TimeStart: "14:00", Room: "PL-2"},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	marks := []models.AttendanceMark{
		{ScheduleID: 110, StudentID: entry.ID, Status: models.StatusPresent},
		{ScheduleID: 111, StudentID: entry.ID, Status: models.StatusAbsent},
		{ScheduleID: 112, StudentID: entry.ID, Status: models.StatusPresent},
	}
	for i := range marks {
		require.NoError(t, db.Create(&marks[i]).Error)
	}

	summary, err := svc.GetMySummary(ctx, Identity{UserID: 1, Email: entry.Email})
	require.NoError(t, err)

	require.NotNil(t, summary.Student)
	require.Equal(t, "Maya Iyer", summary.Student.Name)
	require.Equal(t, "CS21B042", summary.Student.RollNo)

	require.Len(t, summary.Subjects, 2)
	math := summary.Subjects[0]
	require.Equal(t, "Math", math.Subject)
	require.Equal(t, 1, math.Present)
	require.Equal(t, 1, math.Absent)
	require.Equal(t, 2, math.Total)
	require.InDelta(t, 50.0, math.Percentage, 0.001)

	physics := summary.Subjects[1]
	require.Equal(t, "Physics", physics.Subject)
	require.Equal(t, 1, physics.Present)
	require.Equal(t, 0, physics.Absent)
	require.InDelta(t, 100.0, physics.Percentage, 0.001)

	// Invariants: per-subject counters reconcile with the totals.
	for _, subject := range summary.Subjects {
		require.Equal(t, subject.Total, subject.Present+subject.Absent)
	}
	require.Equal(t, 2, summary.TotalPresent)
	require.Equal(t, 3, summary.TotalClasses)
	require.InDelta(t, 66.7, summary.OverallPct, 0.001)

	// Feed is newest-first.
	require.Len(t, summary.PerDate, 3)
	require.Equal(t, "2026-02-12", summary.PerDate[0].Date)
	require.Equal(t, "2026-02-11", summary.PerDate[1].Date)
	require.Equal(t, "2026-02-10", summary.PerDate[2].Date)
}

func TestGetMySummaryNoRosterEntry(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: 900, Email: "ghost@campus.edu"})
	require.NoError(t, err)
	require.Nil(t, summary.Student)
	require.Empty(t, summary.Subjects)
	require.Empty(t, summary.PerDate)
	require.Equal(t, 0, summary.TotalClasses)
	require.InDelta(t, 0.0, summary.OverallPct, 0.001)
}

func TestGetMySummaryNoMarks(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	entry := models.RosterEntry{Name: "Rohan Mehta", RollNo: "CS21B077", Section: "B", Email: "rohan.mehta@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: 2, Email: entry.Email})
	require.NoError(t, err)
	require.NotNil(t, summary.Student)
	require.Equal(t, "Rohan Mehta", summary.Student.Name)
	require.Empty(t, summary.Subjects)
	require.Equal(t, 0, summary.TotalClasses)
}

func TestGetMySummaryEmailFallback(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	user := models.User{ID: 31, Name: "Anika Rao", Email: "anika.rao@campus.edu", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	entry := models.RosterEntry{Name: "Anika Rao", RollNo: "CS21B003", Section: "A", Email: user.Email}
	require.NoError(t, db.Create(&entry).Error)

	session := models.ScheduleEntry{ID: 120, Subject: "Chemistry", Type: models.SessionTypeLecture, Section: "A", Date: "2026-03-01"}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&models.AttendanceMark{ScheduleID: 120, StudentID: entry.ID, Status: models.StatusPresent}).Error)

	// Token without an email claim: the service resolves it via the account.
	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: user.ID})
	require.NoError(t, err)
	require.NotNil(t, summary.Student)
	require.Equal(t, 1, summary.TotalPresent)
}

func TestGetMySummaryDropsOrphanedMarks(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	entry := models.RosterEntry{Name: "Dev Patel", RollNo: "CS21B054", Section: "C", Email: "dev.patel@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	session := models.ScheduleEntry{ID: 130, Subject: "Biology", Type: models.SessionTypeLecture, Section: "C", Date: "2026-03-02"}
	require.NoError(t, db.Create(&session).Error)

	marks := []models.AttendanceMark{
		{ScheduleID: 130, StudentID: entry.ID, Status: models.StatusPresent},
		// Points at a session that no longer exists.
		{ScheduleID: 99130, StudentID: entry.ID, Status: models.StatusPresent},
	}
	for i := range marks {
		require.NoError(t, db.Create(&marks[i]).Error)
	}

	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: 3, Email: entry.Email})
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalClasses)
	require.Len(t, summary.PerDate, 1)
}

func TestGetMySummaryStatusBucketing(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	entry := models.RosterEntry{Name: "Sara Khan", RollNo: "CS21B090", Section: "A", Email: "sara.khan@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	sessions := []models.ScheduleEntry{
		{ID: 140, Subject: "History", Date: "2026-03-03"},
		{ID: 141, Subject: "History", Date: "2026-03-04"},
		{ID: 142, Subject: "History", Date: "2026-03-05"},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	// Only the present literal counts as present; excused and late bucket
	// into absent for percentage purposes.
	marks := []models.AttendanceMark{
		{ScheduleID: 140, StudentID: entry.ID, Status: models.StatusPresent},
		{ScheduleID: 141, StudentID: entry.ID, Status: models.StatusExcused},
		{ScheduleID: 142, StudentID: entry.ID, Status: models.StatusLate},
	}
	for i := range marks {
		require.NoError(t, db.Create(&marks[i]).Error)
	}

	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: 4, Email: entry.Email})
	require.NoError(t, err)
	require.Len(t, summary.Subjects, 1)
	require.Equal(t, 1, summary.Subjects[0].Present)
	require.Equal(t, 2, summary.Subjects[0].Absent)
	require.InDelta(t, 33.3, summary.Subjects[0].Percentage, 0.001)
}

func TestGetMySummaryFeedCap(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	entry := models.RosterEntry{Name: "Ishaan Verma", RollNo: "CS21B101", Section: "A", Email: "ishaan.verma@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	base := uint(200)
	for i := 0; i < 40; i++ {
		session := models.ScheduleEntry{
			ID:      base + uint(i),
			Subject: "Algorithms",
			Date:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
		}
		require.NoError(t, db.Create(&session).Error)
		require.NoError(t, db.Create(&models.AttendanceMark{ScheduleID: session.ID, StudentID: entry.ID, Status: models.StatusPresent}).Error)
	}

	summary, err := svc.GetMySummary(context.Background(), Identity{UserID: 5, Email: entry.Email})
	require.NoError(t, err)
	require.Len(t, summary.PerDate, 30)
	require.Equal(t, 40, summary.TotalClasses)

	for i := 1; i < len(summary.PerDate); i++ {
		require.GreaterOrEqual(t, summary.PerDate[i-1].Date, summary.PerDate[i].Date)
	}
	// Most recent session survives the cap.
	require.Equal(t, "2026-02-09", summary.PerDate[0].Date)
}

func TestGetMySummaryCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := openTestDB(t)
	svc := newAttendanceService(t, db, redisClient, time.Minute)
	ctx := context.Background()

	entry := models.RosterEntry{Name: "Nisha Pillai", RollNo: "CS21B120", Section: "B", Email: "nisha.pillai@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	session := models.ScheduleEntry{ID: 300, Subject: "Networks", Date: "2026-03-10"}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&models.AttendanceMark{ScheduleID: 300, StudentID: entry.ID, Status: models.StatusPresent}).Error)

	identity := Identity{UserID: 6, Email: entry.Email}
	first, err := svc.GetMySummary(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalPresent)

	// Add a mark afterwards; the cached aggregate is returned unchanged.
	extra := models.ScheduleEntry{ID: 301, Subject: "Networks", Date: "2026-03-11"}
	require.NoError(t, db.Create(&extra).Error)
	require.NoError(t, db.Create(&models.AttendanceMark{ScheduleID: 301, StudentID: entry.ID, Status: models.StatusAbsent}).Error)

	second, err := svc.GetMySummary(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetMySummaryCacheSeed(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := openTestDB(t)
	svc := newAttendanceService(t, db, redisClient, time.Minute)
	ctx := context.Background()

	cached := dto.AttendanceSummaryResponse{
		Subjects:     []dto.SubjectSummary{{Subject: "Cached", Total: 7, Present: 7, Percentage: 100}},
		PerDate:      []dto.FeedEntry{},
		TotalPresent: 7,
		TotalClasses: 7,
		OverallPct:   100,
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, redisClient.Set(ctx, "attendance:summary:77", payload, time.Minute).Err())

	response, err := svc.GetMySummary(ctx, Identity{UserID: 77, Email: "cached@campus.edu"})
	require.NoError(t, err)
	require.Equal(t, cached, response)
}

func TestGetStudentAttendanceLegacy(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	sessions := []models.ScheduleEntry{
		{ID: 400, Subject: "Databases", Date: "2026-03-12"},
		{ID: 401, Subject: "Databases", Date: "2026-03-13"},
		{ID: 402, Subject: "Compilers", Date: "2026-03-13"},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	studentID := uint(4040)
	marks := []models.AttendanceMark{
		{ScheduleID: 400, StudentID: studentID, Status: models.StatusPresent},
		{ScheduleID: 401, StudentID: studentID, Status: models.StatusAbsent},
		{ScheduleID: 402, StudentID: studentID, Status: models.StatusPresent},
	}
	for i := range marks {
		require.NoError(t, db.Create(&marks[i]).Error)
	}

	summaries, err := svc.GetStudentAttendance(context.Background(), studentID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	bySubject := map[string]dto.LegacySubjectSummary{}
	for _, summary := range summaries {
		bySubject[summary.Subject] = summary
	}
	require.Equal(t, 1, bySubject["Databases"].Present)
	require.Equal(t, 2, bySubject["Databases"].Total)
	require.InDelta(t, 50.0, bySubject["Databases"].Percentage, 0.001)
	require.InDelta(t, 100.0, bySubject["Compilers"].Percentage, 0.001)
}

func TestMarkSessionRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	session := models.ScheduleEntry{ID: 500, Subject: "Ethics", Date: "2026-03-15"}
	require.NoError(t, db.Create(&session).Error)

	err := svc.MarkSession(context.Background(), dto.MarkAttendanceRequest{
		ScheduleID: 500,
		Records:    []dto.MarkRecord{{StudentID: 1, Status: "maybe"}},
	})
	require.Error(t, err)
}

func TestMarkSessionUnknownSchedule(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)

	err := svc.MarkSession(context.Background(), dto.MarkAttendanceRequest{
		ScheduleID: 987654,
		Records:    []dto.MarkRecord{{StudentID: 1, Status: models.StatusPresent}},
	})
	require.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestMarkSessionUpsertOverwrites(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)
	ctx := context.Background()

	session := models.ScheduleEntry{ID: 510, Subject: "Statistics", Date: "2026-03-16"}
	require.NoError(t, db.Create(&session).Error)

	require.NoError(t, svc.MarkSession(ctx, dto.MarkAttendanceRequest{
		ScheduleID: 510,
		Records:    []dto.MarkRecord{{StudentID: 601, Status: models.StatusAbsent}},
	}))
	require.NoError(t, svc.MarkSession(ctx, dto.MarkAttendanceRequest{
		ScheduleID: 510,
		Records:    []dto.MarkRecord{{StudentID: 601, Status: models.StatusPresent}},
	}))

	var stored []models.AttendanceMark
	require.NoError(t, db.Where("schedule_id = ?", 510).Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, models.StatusPresent, stored[0].Status)
}

func TestGetSessionMarks(t *testing.T) {
	db := openTestDB(t)
	svc := newAttendanceService(t, db, nil, 0)
	ctx := context.Background()

	entry := models.RosterEntry{Name: "Vikram Joshi", RollNo: "CS21B140", Section: "A", Email: "vikram.joshi@campus.edu"}
	require.NoError(t, db.Create(&entry).Error)

	session := models.ScheduleEntry{ID: 520, Subject: "Operating Systems", Date: "2026-03-17"}
	require.NoError(t, db.Create(&session).Error)

	require.NoError(t, svc.MarkSession(ctx, dto.MarkAttendanceRequest{
		ScheduleID: 520,
		Records:    []dto.MarkRecord{{StudentID: entry.ID, Status: models.StatusLate}},
	}))

	marks, err := svc.GetSessionMarks(ctx, 520)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.Equal(t, entry.ID, marks[0].StudentID)
	require.Equal(t, "Vikram Joshi", marks[0].Name)
	require.Equal(t, models.StatusLate, marks[0].Status)
}
