package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/api/dto"
	"github.com/spec-kit/fleet-dashboard/internal/query"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	apperrors "github.com/spec-kit/fleet-dashboard/pkg/util"
)

// DriversHandler serves the driver roster.
type DriversHandler struct {
	service *service.FleetService
}

// NewDriversHandler constructs handler.
func NewDriversHandler(fleet *service.FleetService) *DriversHandler {
	return &DriversHandler{service: fleet}
}

// List GET /api/drivers.
func (h *DriversHandler) List(c *fiber.Ctx) error {
	sort, err := parseSort(c)
	if err != nil {
		return err
	}
	drivers, err := h.service.ListDrivers(query.DriverQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   sort,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": drivers})
}

// Create POST /api/drivers.
func (h *DriversHandler) Create(c *fiber.Ctx) error {
	var req dto.DriverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	res, err := h.service.AddDriver(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Update PUT /api/drivers/:id.
func (h *DriversHandler) Update(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	var req dto.DriverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.service.UpdateDriver(c.UserContext(), req.ToDomain(id))
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Delete DELETE /api/drivers/:id.
func (h *DriversHandler) Delete(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	res, err := h.service.DeleteDriver(c.UserContext(), id)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}
