package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// ErrScheduleNotFound indicates the referenced session does not exist.
var ErrScheduleNotFound = errors.New("schedule entry not found")

// ErrInvalidStatus indicates a mark carried a status outside the closed set.
var ErrInvalidStatus = errors.New("invalid attendance status")

// feedLimit caps the per-date activity feed.
const feedLimit = 30

// Identity is the verified caller attached by the auth middleware.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// AttendanceService exposes attendance domain use cases.
type AttendanceService interface {
	// GetMySummary aggregates the caller's marks across all subjects.
	// A caller without a roster entry receives a zero-valued summary,
	// not an error.
	GetMySummary(ctx context.Context, identity Identity) (dto.AttendanceSummaryResponse, error)
	// GetStudentAttendance is the roster-less legacy aggregation keyed by
	// the caller's account id.
	GetStudentAttendance(ctx context.Context, userID uint) ([]dto.LegacySubjectSummary, error)
	MarkSession(ctx context.Context, payload dto.MarkAttendanceRequest) error
	GetSessionMarks(ctx context.Context, scheduleID uint) ([]dto.SessionMark, error)
}

type attendanceService struct {
	roster     repository.RosterRepository
	schedule   repository.ScheduleRepository
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAttendanceService builds the attendance aggregator.
func NewAttendanceService(
	roster repository.RosterRepository,
	schedule repository.ScheduleRepository,
	attendance repository.AttendanceRepository,
	users repository.UserRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		roster:     roster,
		schedule:   schedule,
		attendance: attendance,
		users:      users,
		cache:      cache,
		cacheTTL:   cacheTTL,
		validator:  validate,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) GetMySummary(ctx context.Context, identity Identity) (dto.AttendanceSummaryResponse, error) {
	cacheKey := fmt.Sprintf("attendance:summary:%d", identity.UserID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.AttendanceSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", identity.UserID).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	response, err := s.buildSummary(ctx, identity)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

func (s *attendanceService) buildSummary(ctx context.Context, identity Identity) (dto.AttendanceSummaryResponse, error) {
	email := identity.Email
	if email == "" {
		user, err := s.users.GetByID(ctx, identity.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return emptySummary(nil), nil
			}
			return dto.AttendanceSummaryResponse{}, err
		}
		email = user.Email
	}

	entry, err := s.roster.GetByEmail(ctx, email)
	if err != nil {
		// Not being on the roster is a valid state for accounts that
		// exist but were never enrolled.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptySummary(nil), nil
		}
		return dto.AttendanceSummaryResponse{}, err
	}

	student := &dto.StudentInfo{Name: entry.Name, RollNo: entry.RollNo, Section: entry.Section}

	marks, err := s.attendance.ListByStudent(ctx, entry.ID)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}
	if len(marks) == 0 {
		return emptySummary(student), nil
	}

	sessions, err := s.schedule.GetByIDs(ctx, distinctScheduleIDs(marks))
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	sessionByID := make(map[uint]models.ScheduleEntry, len(sessions))
	for _, session := range sessions {
		sessionByID[session.ID] = session
	}

	type bucket struct {
		summary dto.SubjectSummary
		order   int
	}
	buckets := map[string]*bucket{}
	feed := make([]dto.FeedEntry, 0, len(marks))
	next := 0

	for _, mark := range marks {
		session, ok := sessionByID[mark.ScheduleID]
		if !ok {
			// Marks pointing at a deleted session are dropped, never
			// surfaced and never fatal.
			continue
		}

		b, exists := buckets[session.Subject]
		if !exists {
			b = &bucket{
				summary: dto.SubjectSummary{
					Subject: session.Subject,
					Type:    session.Type,
					Section: session.Section,
				},
				order: next,
			}
			buckets[session.Subject] = b
			next++
		}

		if mark.Status == models.StatusPresent {
			b.summary.Present++
		} else {
			b.summary.Absent++
		}
		b.summary.Total++

		feed = append(feed, dto.FeedEntry{
			Subject: session.Subject,
			Type:    session.Type,
			Date:    session.Date,
			Time:    session.TimeStart,
			Room:    session.Room,
			Status:  mark.Status,
		})
	}

	subjects := make([]dto.SubjectSummary, len(buckets))
	for _, b := range buckets {
		b.summary.Percentage = percentage(b.summary.Present, b.summary.Total)
		subjects[b.order] = b.summary
	}

	totalPresent, totalClasses := 0, 0
	for _, subject := range subjects {
		totalPresent += subject.Present
		totalClasses += subject.Total
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Date > feed[j].Date })
	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}

	return dto.AttendanceSummaryResponse{
		Student:      student,
		Subjects:     subjects,
		PerDate:      feed,
		TotalPresent: totalPresent,
		TotalClasses: totalClasses,
		OverallPct:   percentage(totalPresent, totalClasses),
	}, nil
}

func (s *attendanceService) GetStudentAttendance(ctx context.Context, userID uint) ([]dto.LegacySubjectSummary, error) {
	rows, err := s.attendance.ListJoinedByStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	counts := map[string]*dto.LegacySubjectSummary{}
	for _, row := range rows {
		summary, ok := counts[row.Subject]
		if !ok {
			summary = &dto.LegacySubjectSummary{Subject: row.Subject}
			counts[row.Subject] = summary
			order = append(order, row.Subject)
		}
		if row.Status == models.StatusPresent {
			summary.Present++
		}
		summary.Total++
	}

	summaries := make([]dto.LegacySubjectSummary, 0, len(order))
	for _, subject := range order {
		summary := counts[subject]
		summary.Percentage = percentage(summary.Present, summary.Total)
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

func (s *attendanceService) MarkSession(ctx context.Context, payload dto.MarkAttendanceRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if _, err := s.schedule.GetByID(ctx, payload.ScheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	marks := make([]models.AttendanceMark, 0, len(payload.Records))
	for _, record := range payload.Records {
		if !models.ValidStatus(record.Status) {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, record.Status)
		}
		marks = append(marks, models.AttendanceMark{
			ScheduleID: payload.ScheduleID,
			StudentID:  record.StudentID,
			Status:     record.Status,
		})
	}

	if err := s.attendance.Upsert(ctx, marks); err != nil {
		return err
	}

	s.logger.Info().Uint("schedule_id", payload.ScheduleID).Int("records", len(marks)).Msg("attendance marked")

	return nil
}

func (s *attendanceService) GetSessionMarks(ctx context.Context, scheduleID uint) ([]dto.SessionMark, error) {
	if _, err := s.schedule.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	marks, err := s.attendance.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(marks))
	for _, mark := range marks {
		ids = append(ids, mark.StudentID)
	}

	entries, err := s.roster.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entryByID := make(map[uint]models.RosterEntry, len(entries))
	for _, entry := range entries {
		entryByID[entry.ID] = entry
	}

	result := make([]dto.SessionMark, 0, len(marks))
	for _, mark := range marks {
		entry := entryByID[mark.StudentID]
		result = append(result, dto.SessionMark{
			StudentID: mark.StudentID,
			Name:      entry.Name,
			RollNo:    entry.RollNo,
			Status:    mark.Status,
		})
	}

	return result, nil
}

func emptySummary(student *dto.StudentInfo) dto.AttendanceSummaryResponse {
	return dto.AttendanceSummaryResponse{
		Student:      student,
		Subjects:     []dto.SubjectSummary{},
		PerDate:      []dto.FeedEntry{},
		TotalPresent: 0,
		TotalClasses: 0,
		OverallPct:   0,
	}
}

func distinctScheduleIDs(marks []models.AttendanceMark) []uint {
	seen := make(map[uint]struct{}, len(marks))
	ids := make([]uint, 0, len(marks))
	for _, mark := range marks {
		if _, ok := seen[mark.ScheduleID]; ok {
			continue
		}
		seen[mark.ScheduleID] = struct{}{}
		ids = append(ids, mark.ScheduleID)
	}

	return ids
}

// percentage rounds present/total to one decimal place; zero totals yield
// zero rather than a division error.
func percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}
