package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
)

// AdminHandler serves the dashboard endpoints.
type AdminHandler struct {
	users *services.UserService
	stats *services.StatsService
	now   func() time.Time
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users *services.UserService, stats *services.StatsService) *AdminHandler {
	return &AdminHandler{users: users, stats: stats, now: time.Now}
}

// ListUsers returns all accounts without password hashes.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(users)
}

// DashboardStats returns aggregate counts for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.stats.Dashboard(c.UserContext(), h.now())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(stats)
}
