package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
)

// CatalogHandler serves category lookups.
type CatalogHandler struct {
	store *services.CatalogStore
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(store *services.CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// ListCategories returns every category ordered by name.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.store.ListCategories(c.UserContext())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(categories)
}
