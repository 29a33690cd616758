package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-dashboard/internal/aggregate"
	"github.com/spec-kit/fleet-dashboard/internal/api/dto"
	"github.com/spec-kit/fleet-dashboard/internal/appstate"
	"github.com/spec-kit/fleet-dashboard/internal/service"
	apperrors "github.com/spec-kit/fleet-dashboard/pkg/util"
)

// DashboardHandler serves the overview and the session endpoints around it.
type DashboardHandler struct {
	service *service.FleetService
	state   *appstate.State
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(fleet *service.FleetService, state *appstate.State) *DashboardHandler {
	return &DashboardHandler{service: fleet, state: state}
}

// Dashboard GET /api/dashboard.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	recent := parseInt(c.Query("recent"), aggregate.DefaultRecentLoads)
	return c.JSON(fiber.Map{"data": h.service.Dashboard(recent)})
}

// Refresh POST /api/refresh/:collection.
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	collection := c.Params("collection")
	if err := h.service.Refresh(c.UserContext(), collection); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"collection": collection, "refreshed": true}})
}

// Status GET /api/status.
func (h *DashboardHandler) Status(c *fiber.Ctx) error {
	st := h.service.Status()
	resp := dto.StatusResponse{Loaded: st.Loaded}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	if !st.LoadedAt.IsZero() {
		loadedAt := st.LoadedAt
		resp.LoadedAt = &loadedAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Notifications GET /api/notifications.
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data":   h.state.Notifications(),
		"unread": h.state.UnreadCount(),
	})
}

// MarkNotificationRead POST /api/notifications/:id/read.
func (h *DashboardHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	n, err := h.state.MarkRead(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": n})
}

// Preferences GET /api/preferences.
func (h *DashboardHandler) Preferences(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.state.Preferences()})
}

// UpdatePreferences PUT /api/preferences.
func (h *DashboardHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req dto.PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	prefs := h.state.UpdatePreferences(func(p *appstate.Preferences) {
		if req.DarkMode != nil {
			p.DarkMode = *req.DarkMode
		}
		if req.SidebarOpen != nil {
			p.SidebarOpen = *req.SidebarOpen
		}
	})
	return c.JSON(fiber.Map{"data": prefs})
}
