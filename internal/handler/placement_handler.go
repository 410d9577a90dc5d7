package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// PlacementHandler exposes the placement drive endpoints.
type PlacementHandler struct {
	service service.PlacementService
	logger  zerolog.Logger
}

// NewPlacementHandler creates a new handler instance.
func NewPlacementHandler(service service.PlacementService, logger zerolog.Logger) *PlacementHandler {
	return &PlacementHandler{
		service: service,
		logger:  logger.With().Str("component", "placement_handler").Logger(),
	}
}

// Register attaches the caller-facing placement endpoints.
func (h *PlacementHandler) Register(router fiber.Router) {
	router.Get("/drives", h.listDrives)
	router.Post("/drives/:id/apply", h.apply)
}

// RegisterAdmin attaches the placement-office endpoints.
func (h *PlacementHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/drives", h.createDrive)
	router.Get("/drives/:id/applications", h.listApplications)
}

func (h *PlacementHandler) listDrives(c *fiber.Ctx) error {
	drives, err := h.service.ListDrives(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list drives")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "drives", drives)
}

func (h *PlacementHandler) createDrive(c *fiber.Ctx) error {
	var payload dto.DriveCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	drive, err := h.service.CreateDrive(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create drive")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "drive created", drive)
}

func (h *PlacementHandler) apply(c *fiber.Ctx) error {
	driveID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid drive id")
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	application, err := h.service.Apply(c.UserContext(), driveID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDriveNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDriveClosed), errors.Is(err, service.ErrAlreadyApplied):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("drive_id", driveID).Msg("failed to apply to drive")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application recorded", application)
}

func (h *PlacementHandler) listApplications(c *fiber.Ctx) error {
	driveID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid drive id")
	}

	applications, err := h.service.ListApplications(c.UserContext(), driveID)
	if err != nil {
		if errors.Is(err, service.ErrDriveNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("drive_id", driveID).Msg("failed to list applications")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "applications", applications)
}
