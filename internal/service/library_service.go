package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// Library domain errors surfaced to the handler boundary.
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrDuplicateRequest  = errors.New("a pending request for this book already exists")
	ErrNoCopies          = errors.New("no copies available")
	ErrRequestNotFound   = errors.New("book request not found")
	ErrRequestNotPending = errors.New("request has already been decided")
	ErrIssueNotFound     = errors.New("issued book not found")
	ErrAlreadyReturned   = errors.New("book has already been returned")
)

// DefaultLoanPeriod is how long an approved book is issued for.
const DefaultLoanPeriod = 15 * 24 * time.Hour

// LibraryService exposes the request/approval borrowing workflow.
type LibraryService interface {
	ListBooks(ctx context.Context, search string) ([]dto.BookResponse, error)
	RequestBook(ctx context.Context, payload dto.BorrowRequestCreate, studentID uint) (dto.BorrowRequestResponse, error)
	// DecideRequest approves or rejects a pending request. Approval
	// produces an issued-book record due one loan period out.
	DecideRequest(ctx context.Context, requestID uint, payload dto.RequestStatusUpdate) (dto.BorrowRequestResponse, *dto.IssuedBookResponse, error)
	MyBooks(ctx context.Context, studentID uint) ([]dto.IssuedBookResponse, error)
	ReturnBook(ctx context.Context, issueID uint) (dto.IssuedBookResponse, error)
}

type libraryService struct {
	library    repository.LibraryRepository
	loanPeriod time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewLibraryService builds a new library service. A non-positive loan
// period falls back to the 15-day default.
func NewLibraryService(library repository.LibraryRepository, loanPeriod time.Duration, validate *validator.Validate, logger zerolog.Logger) LibraryService {
	if loanPeriod <= 0 {
		loanPeriod = DefaultLoanPeriod
	}

	return &libraryService{
		library:    library,
		loanPeriod: loanPeriod,
		validator:  validate,
		logger:     logger.With().Str("component", "library_service").Logger(),
		now:        time.Now,
	}
}

func (s *libraryService) ListBooks(ctx context.Context, search string) ([]dto.BookResponse, error) {
	books, err := s.library.ListBooks(ctx, search)
	if err != nil {
		return nil, err
	}

	return dto.NewBookResponseSlice(books), nil
}

func (s *libraryService) RequestBook(ctx context.Context, payload dto.BorrowRequestCreate, studentID uint) (dto.BorrowRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BorrowRequestResponse{}, err
	}

	book, err := s.library.GetBook(ctx, payload.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BorrowRequestResponse{}, ErrBookNotFound
		}
		return dto.BorrowRequestResponse{}, err
	}

	pending, err := s.library.HasPendingRequest(ctx, book.ID, studentID)
	if err != nil {
		return dto.BorrowRequestResponse{}, err
	}
	if pending {
		return dto.BorrowRequestResponse{}, ErrDuplicateRequest
	}

	if book.AvailableCopies <= 0 {
		return dto.BorrowRequestResponse{}, ErrNoCopies
	}

	request := models.BookRequest{
		BookID:    book.ID,
		StudentID: studentID,
		Status:    models.RequestPending,
	}
	if err := s.library.CreateRequest(ctx, &request); err != nil {
		return dto.BorrowRequestResponse{}, err
	}
	request.Book = book

	s.logger.Info().Uint("book_id", book.ID).Uint("student_id", studentID).Msg("book requested")

	return dto.NewBorrowRequestResponse(request), nil
}

func (s *libraryService) DecideRequest(ctx context.Context, requestID uint, payload dto.RequestStatusUpdate) (dto.BorrowRequestResponse, *dto.IssuedBookResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BorrowRequestResponse{}, nil, err
	}

	request, err := s.library.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BorrowRequestResponse{}, nil, ErrRequestNotFound
		}
		return dto.BorrowRequestResponse{}, nil, err
	}

	if request.Status != models.RequestPending {
		return dto.BorrowRequestResponse{}, nil, ErrRequestNotPending
	}

	if payload.Status == models.RequestRejected {
		if err := s.library.RejectRequest(ctx, &request); err != nil {
			return dto.BorrowRequestResponse{}, nil, err
		}

		s.logger.Info().Uint("request_id", request.ID).Msg("book request rejected")

		return dto.NewBorrowRequestResponse(request), nil, nil
	}

	now := s.now()
	issued, err := s.library.ApproveRequest(ctx, &request, now.Add(s.loanPeriod))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BorrowRequestResponse{}, nil, ErrNoCopies
		}
		return dto.BorrowRequestResponse{}, nil, err
	}
	issued.Book = request.Book

	s.logger.Info().
		Uint("request_id", request.ID).
		Uint("issue_id", issued.ID).
		Time("due_date", issued.DueDate).
		Msg("book request approved")

	issuedResponse := dto.NewIssuedBookResponse(issued, now)

	return dto.NewBorrowRequestResponse(request), &issuedResponse, nil
}

func (s *libraryService) MyBooks(ctx context.Context, studentID uint) ([]dto.IssuedBookResponse, error) {
	issued, err := s.library.ListIssuedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.IssuedBookResponse, 0, len(issued))
	for _, item := range issued {
		responses = append(responses, dto.NewIssuedBookResponse(item, now))
	}

	return responses, nil
}

func (s *libraryService) ReturnBook(ctx context.Context, issueID uint) (dto.IssuedBookResponse, error) {
	issued, err := s.library.GetIssued(ctx, issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.IssuedBookResponse{}, ErrIssueNotFound
		}
		return dto.IssuedBookResponse{}, err
	}

	if issued.ReturnedAt != nil {
		return dto.IssuedBookResponse{}, ErrAlreadyReturned
	}

	now := s.now()
	if err := s.library.ReturnIssued(ctx, &issued, now); err != nil {
		return dto.IssuedBookResponse{}, err
	}

	s.logger.Info().Uint("issue_id", issued.ID).Msg("book returned")

	return dto.NewIssuedBookResponse(issued, now), nil
}
