package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/api/dto"
	"github.com/spec-kit/fleet-dashboard/internal/query"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	apperrors "github.com/spec-kit/fleet-dashboard/pkg/util"
)

// DispatchersHandler serves the dispatcher roster.
type DispatchersHandler struct {
	service *service.FleetService
}

// NewDispatchersHandler constructs handler.
func NewDispatchersHandler(fleet *service.FleetService) *DispatchersHandler {
	return &DispatchersHandler{service: fleet}
}

// List GET /api/dispatchers.
func (h *DispatchersHandler) List(c *fiber.Ctx) error {
	sort, err := parseSort(c)
	if err != nil {
		return err
	}
	dispatchers, err := h.service.ListDispatchers(query.DispatcherQuery{
		Search: c.Query("search"),
		Team:   c.Query("team"),
		Sort:   sort,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dispatchers})
}

// Get GET /api/dispatchers/:id.
func (h *DispatchersHandler) Get(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Dispatcher(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DispatcherDetailResponse{
		Dispatcher: detail.Dispatcher,
		Loads:      detail.Loads,
	}})
}

// Create POST /api/dispatchers.
func (h *DispatchersHandler) Create(c *fiber.Ctx) error {
	var req dto.DispatcherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	res, err := h.service.AddDispatcher(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Update PUT /api/dispatchers/:id.
func (h *DispatchersHandler) Update(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	var req dto.DispatcherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.service.UpdateDispatcher(c.UserContext(), req.ToDomain(id))
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

// Delete DELETE /api/dispatchers/:id.
func (h *DispatchersHandler) Delete(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	res, err := h.service.DeleteDispatcher(c.UserContext(), id)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}
