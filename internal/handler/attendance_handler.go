package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// AttendanceHandler exposes the attendance endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler creates a new handler instance.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the caller-facing attendance endpoints.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("/my", h.getMySummary)
	router.Get("/student", h.getStudentAttendance)
}

// RegisterFaculty attaches the faculty-only marking endpoints.
func (h *AttendanceHandler) RegisterFaculty(router fiber.Router) {
	router.Post("/mark", h.markSession)
	router.Get("/session/:id", h.getSessionMarks)
}

func (h *AttendanceHandler) getMySummary(c *fiber.Ctx) error {
	identity := identityFromContext(c)
	if identity.UserID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summary, err := h.service.GetMySummary(c.UserContext(), identity)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", identity.UserID).Msg("failed to aggregate attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "attendance summary", summary)
}

func (h *AttendanceHandler) getStudentAttendance(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summaries, err := h.service.GetStudentAttendance(c.UserContext(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", userID).Msg("failed to load legacy attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "attendance", summaries)
}

func (h *AttendanceHandler) markSession(c *fiber.Ctx) error {
	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.MarkSession(c.UserContext(), payload); err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrScheduleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to mark attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "attendance marked", nil)
}

func (h *AttendanceHandler) getSessionMarks(c *fiber.Ctx) error {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid schedule id")
	}

	marks, err := h.service.GetSessionMarks(c.UserContext(), scheduleID)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("schedule_id", scheduleID).Msg("failed to load session marks")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "session marks", marks)
}
