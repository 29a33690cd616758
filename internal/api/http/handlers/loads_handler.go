package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/api/dto"
	"github.com/spec-kit/fleet-dashboard/internal/query"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	apperrors "github.com/spec-kit/fleet-dashboard/pkg/util"
)

// LoadsHandler serves the load board.
type LoadsHandler struct {
	service *service.FleetService
}

// NewLoadsHandler constructs handler.
func NewLoadsHandler(fleet *service.FleetService) *LoadsHandler {
	return &LoadsHandler{service: fleet}
}

// List GET /api/loads.
func (h *LoadsHandler) List(c *fiber.Ctx) error {
	sort, err := parseSort(c)
	if err != nil {
		return err
	}
	loads, err := h.service.ListLoads(query.LoadQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   sort,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": loads})
}

// Upsert POST /api/loads.
func (h *LoadsHandler) Upsert(c *fiber.Ctx) error {
	var req dto.LoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.service.UpsertLoad(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Update PUT /api/loads/:id.
func (h *LoadsHandler) Update(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	var req dto.LoadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	load := req.ToDomain(id)
	load.Deleted = false
	res, err := h.service.UpsertLoad(c.UserContext(), load)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Delete DELETE /api/loads/:id.
func (h *LoadsHandler) Delete(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	res, err := h.service.DeleteLoad(c.UserContext(), id)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}
