package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/service"
)

type stubLibraryService struct {
	books       []dto.BookResponse
	request     dto.BorrowRequestResponse
	requestErr  error
	decided     dto.BorrowRequestResponse
	issued      *dto.IssuedBookResponse
	decideErr   error
	myBooks     []dto.IssuedBookResponse
	returned    dto.IssuedBookResponse
	returnErr   error
	lastStudent uint
}

func (s *stubLibraryService) ListBooks(_ context.Context, _ string) ([]dto.BookResponse, error) {
	return s.books, nil
}

func (s *stubLibraryService) RequestBook(_ context.Context, _ dto.BorrowRequestCreate, studentID uint) (dto.BorrowRequestResponse, error) {
	s.lastStudent = studentID
	if s.requestErr != nil {
		return dto.BorrowRequestResponse{}, s.requestErr
	}
	return s.request, nil
}

func (s *stubLibraryService) DecideRequest(_ context.Context, _ uint, _ dto.RequestStatusUpdate) (dto.BorrowRequestResponse, *dto.IssuedBookResponse, error) {
	if s.decideErr != nil {
		return dto.BorrowRequestResponse{}, nil, s.decideErr
	}
	return s.decided, s.issued, nil
}

func (s *stubLibraryService) MyBooks(_ context.Context, studentID uint) ([]dto.IssuedBookResponse, error) {
	s.lastStudent = studentID
	return s.myBooks, nil
}

func (s *stubLibraryService) ReturnBook(_ context.Context, _ uint) (dto.IssuedBookResponse, error) {
	if s.returnErr != nil {
		return dto.IssuedBookResponse{}, s.returnErr
	}
	return s.returned, nil
}

var _ service.LibraryService = (*stubLibraryService)(nil)

func newLibraryApp(svc service.LibraryService, auth fiber.Handler) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/library")
	if auth != nil {
		group.Use(auth)
	}
	h := handler.NewLibraryHandler(svc, zerolog.Nop())
	h.Register(group)
	h.RegisterLibrarian(group)
	return app
}

func TestRequestBookEndpoint(t *testing.T) {
	svc := &stubLibraryService{request: dto.BorrowRequestResponse{ID: 3, Status: "pending"}}
	app := newLibraryApp(svc, authStub(42, "student", ""))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/library/request", strings.NewReader(`{"book_id": 9}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastStudent)
}

func TestRequestBookDuplicateConflict(t *testing.T) {
	svc := &stubLibraryService{requestErr: service.ErrDuplicateRequest}
	app := newLibraryApp(svc, authStub(42, "student", ""))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/library/request", strings.NewReader(`{"book_id": 9}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDecideRequestEndpoint(t *testing.T) {
	due := time.Date(2026, 4, 25, 9, 0, 0, 0, time.UTC)
	svc := &stubLibraryService{
		decided: dto.BorrowRequestResponse{ID: 3, Status: "approved"},
		issued:  &dto.IssuedBookResponse{ID: 8, DueDate: due},
	}
	app := newLibraryApp(svc, authStub(50, "librarian", ""))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/library/requests/3/status", strings.NewReader(`{"status": "approved"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Request dto.BorrowRequestResponse `json:"request"`
			Issued  *dto.IssuedBookResponse   `json:"issued"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Equal(t, "approved", payload.Data.Request.Status)
	require.NotNil(t, payload.Data.Issued)
	require.True(t, due.Equal(payload.Data.Issued.DueDate))
}

func TestDecideRequestAlreadyDecided(t *testing.T) {
	svc := &stubLibraryService{decideErr: service.ErrRequestNotPending}
	app := newLibraryApp(svc, authStub(50, "librarian", ""))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/library/requests/3/status", strings.NewReader(`{"status": "approved"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReturnBookEndpoint(t *testing.T) {
	returnedAt := time.Now().UTC()
	svc := &stubLibraryService{returned: dto.IssuedBookResponse{ID: 8, ReturnedAt: &returnedAt}}
	app := newLibraryApp(svc, authStub(50, "librarian", ""))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/library/issues/8/return", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	app = newLibraryApp(&stubLibraryService{returnErr: service.ErrAlreadyReturned}, authStub(50, "librarian", ""))
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/library/issues/8/return", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMyBooksEndpoint(t *testing.T) {
	svc := &stubLibraryService{myBooks: []dto.IssuedBookResponse{{ID: 8, Overdue: true}}}
	app := newLibraryApp(svc, authStub(42, "student", ""))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/library/my-books", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data []dto.IssuedBookResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.Len(t, payload.Data, 1)
	require.True(t, payload.Data[0].Overdue)
}
