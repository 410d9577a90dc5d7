package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// LibraryHandler exposes the library borrowing workflow.
type LibraryHandler struct {
	service service.LibraryService
	logger  zerolog.Logger
}

// NewLibraryHandler creates a new handler instance.
func NewLibraryHandler(service service.LibraryService, logger zerolog.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		logger:  logger.With().Str("component", "library_handler").Logger(),
	}
}

// Register attaches the caller-facing library endpoints.
func (h *LibraryHandler) Register(router fiber.Router) {
	router.Get("/books", h.listBooks)
	router.Post("/request", h.requestBook)
	router.Get("/my-books", h.myBooks)
}

// RegisterLibrarian attaches the librarian-only endpoints.
func (h *LibraryHandler) RegisterLibrarian(router fiber.Router) {
	router.Patch("/requests/:id/status", h.decideRequest)
	router.Post("/issues/:id/return", h.returnBook)
}

func (h *LibraryHandler) listBooks(c *fiber.Ctx) error {
	books, err := h.service.ListBooks(c.UserContext(), c.Query("search"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list books")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "books", books)
}

func (h *LibraryHandler) requestBook(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.BorrowRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.RequestBook(c.UserContext(), payload, studentID)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrNoCopies):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateRequest):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrBookNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create book request")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "book requested", request)
}

func (h *LibraryHandler) decideRequest(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.RequestStatusUpdate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, issued, err := h.service.DecideRequest(c.UserContext(), requestID, payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrRequestNotPending), errors.Is(err, service.ErrNoCopies):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRequestNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("request_id", requestID).Msg("failed to decide book request")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	payloadOut := fiber.Map{"request": request}
	if issued != nil {
		payloadOut["issued"] = issued
	}

	return utils.SendSuccess(c, "request "+request.Status, payloadOut)
}

func (h *LibraryHandler) myBooks(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	issued, err := h.service.MyBooks(c.UserContext(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list issued books")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "issued books", issued)
}

func (h *LibraryHandler) returnBook(c *fiber.Ctx) error {
	issueID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid issue id")
	}

	issued, err := h.service.ReturnBook(c.UserContext(), issueID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIssueNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyReturned):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("issue_id", issueID).Msg("failed to return book")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "book returned", issued)
}
