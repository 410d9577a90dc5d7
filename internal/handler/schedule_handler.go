package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// ScheduleHandler exposes the timetable endpoints.
type ScheduleHandler struct {
	service service.ScheduleService
	logger  zerolog.Logger
}

// NewScheduleHandler creates a new handler instance.
func NewScheduleHandler(service service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger.With().Str("component", "schedule_handler").Logger(),
	}
}

// Register attaches the caller-facing timetable endpoint.
func (h *ScheduleHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

// RegisterFaculty attaches the faculty-only session creation endpoint.
func (h *ScheduleHandler) RegisterFaculty(router fiber.Router) {
	router.Post("/", h.create)
}

func (h *ScheduleHandler) list(c *fiber.Ctx) error {
	entries, err := h.service.ListBySection(c.UserContext(), c.Query("section"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list schedule")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "schedule", entries)
}

func (h *ScheduleHandler) create(c *fiber.Ctx) error {
	var payload dto.ScheduleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.Create(c.UserContext(), payload, userIDFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create schedule entry")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session scheduled", entry)
}
