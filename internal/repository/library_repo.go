package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// LibraryRepository provides access to books, borrow requests and loans.
type LibraryRepository interface {
	ListBooks(ctx context.Context, search string) ([]models.Book, error)
	GetBook(ctx context.Context, id uint) (models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) error
	HasPendingRequest(ctx context.Context, bookID, studentID uint) (bool, error)
	CreateRequest(ctx context.Context, request *models.BookRequest) error
	GetRequest(ctx context.Context, id uint) (models.BookRequest, error)
	RejectRequest(ctx context.Context, request *models.BookRequest) error
	// ApproveRequest flips the request, creates the loan and decrements the
	// available copy count in one transaction.
	ApproveRequest(ctx context.Context, request *models.BookRequest, due time.Time) (models.IssuedBook, error)
	ListIssuedByStudent(ctx context.Context, studentID uint) ([]models.IssuedBook, error)
	GetIssued(ctx context.Context, id uint) (models.IssuedBook, error)
	// ReturnIssued closes the loan and restores the copy.
	ReturnIssued(ctx context.Context, issued *models.IssuedBook, returnedAt time.Time) error
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository constructs a library repository.
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) ListBooks(ctx context.Context, search string) ([]models.Book, error) {
	query := r.db.WithContext(ctx).Model(&models.Book{})
	if search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", pattern, pattern)
	}

	var books []models.Book
	if err := query.Order("title ASC").Find(&books).Error; err != nil {
		return nil, err
	}

	return books, nil
}

func (r *libraryRepository) GetBook(ctx context.Context, id uint) (models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return models.Book{}, err
	}

	return book, nil
}

func (r *libraryRepository) CreateBook(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *libraryRepository) HasPendingRequest(ctx context.Context, bookID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookRequest{}).
		Where("book_id = ? AND student_id = ? AND status = ?", bookID, studentID, models.RequestPending).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *libraryRepository) CreateRequest(ctx context.Context, request *models.BookRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *libraryRepository) GetRequest(ctx context.Context, id uint) (models.BookRequest, error) {
	var request models.BookRequest
	if err := r.db.WithContext(ctx).Preload("Book").First(&request, id).Error; err != nil {
		return models.BookRequest{}, err
	}

	return request, nil
}

func (r *libraryRepository) RejectRequest(ctx context.Context, request *models.BookRequest) error {
	request.Status = models.RequestRejected
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *libraryRepository) ApproveRequest(ctx context.Context, request *models.BookRequest, due time.Time) (models.IssuedBook, error) {
	var issued models.IssuedBook

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies > 0", request.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		request.Status = models.RequestApproved
		if err := tx.Save(request).Error; err != nil {
			return err
		}

		issued = models.IssuedBook{
			BookID:    request.BookID,
			StudentID: request.StudentID,
			IssuedAt:  time.Now().UTC(),
			DueDate:   due,
		}

		return tx.Create(&issued).Error
	})
	if err != nil {
		return models.IssuedBook{}, err
	}

	return issued, nil
}

func (r *libraryRepository) ListIssuedByStudent(ctx context.Context, studentID uint) ([]models.IssuedBook, error) {
	var issued []models.IssuedBook
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&issued).Error; err != nil {
		return nil, err
	}

	return issued, nil
}

func (r *libraryRepository) GetIssued(ctx context.Context, id uint) (models.IssuedBook, error) {
	var issued models.IssuedBook
	if err := r.db.WithContext(ctx).Preload("Book").First(&issued, id).Error; err != nil {
		return models.IssuedBook{}, err
	}

	return issued, nil
}

func (r *libraryRepository) ReturnIssued(ctx context.Context, issued *models.IssuedBook, returnedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issued.ReturnedAt = &returnedAt
		if err := tx.Save(issued).Error; err != nil {
			return err
		}

		return tx.Model(&models.Book{}).
			Where("id = ?", issued.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
	})
}
