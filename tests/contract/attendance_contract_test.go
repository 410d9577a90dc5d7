package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/service"
)

type stubAttendanceService struct {
	response dto.AttendanceSummaryResponse
}

func (s stubAttendanceService) GetMySummary(context.Context, service.Identity) (dto.AttendanceSummaryResponse, error) {
	return s.response, nil
}

func (s stubAttendanceService) GetStudentAttendance(context.Context, uint) ([]dto.LegacySubjectSummary, error) {
	return nil, nil
}

func (s stubAttendanceService) MarkSession(context.Context, dto.MarkAttendanceRequest) error {
	return nil
}

func (s stubAttendanceService) GetSessionMarks(context.Context, uint) ([]dto.SessionMark, error) {
	return nil, nil
}

func TestAttendanceSummaryContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "attendance_summary.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	response := dto.AttendanceSummaryResponse{
		Student: &dto.StudentInfo{Name: "Maya Iyer", RollNo: "CS21B042", Section: "A"},
		Subjects: []dto.SubjectSummary{
			{Subject: "Math", Type: "lecture", Section: "A", Present: 1, Absent: 1, Total: 2, Percentage: 50.0},
			{Subject: "Physics", Type: "lab", Section: "A", Present: 1, Absent: 0, Total: 1, Percentage: 100.0},
		},
		PerDate: []dto.FeedEntry{
			{Subject: "Math", Type: "lecture", Date: "2026-02-12", Time: "09:00", Room: "L-101", Status: "absent"},
			{Subject: "Physics", Type: "lab", Date: "2026-02-11", Time: "14:00", Room: "PL-2", Status: "present"},
			{Subject: "Math", Type: "lecture", Date: "2026-02-10", Time: "09:00", Room: "L-101", Status: "present"},
		},
		TotalPresent: 2,
		TotalClasses: 3,
		OverallPct:   66.7,
	}

	svc := stubAttendanceService{response: response}

	app := fiber.New()
	group := app.Group("/api/v1/attendance", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "student")
		c.Locals("user_email", "maya.iyer@campus.edu")
		return c.Next()
	})
	handler.NewAttendanceHandler(svc, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestEmptySummaryContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "attendance_summary.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	// No roster entry: student is null, every counter zero.
	svc := stubAttendanceService{response: dto.AttendanceSummaryResponse{
		Subjects: []dto.SubjectSummary{},
		PerDate:  []dto.FeedEntry{},
	}}

	app := fiber.New()
	group := app.Group("/api/v1/attendance", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(2))
		c.Locals("user_role", "student")
		return c.Next()
	})
	handler.NewAttendanceHandler(svc, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
