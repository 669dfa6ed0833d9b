package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/services"
)

type NavigationHandler struct {
	gateway services.PersistenceGateway
}

func NewNavigationHandler(gateway services.PersistenceGateway) *NavigationHandler {
	return &NavigationHandler{gateway: gateway}
}

// HandleNavigation handles GET /navigation. A profile that has not been
// written yet resolves to the loading view.
func (h *NavigationHandler) HandleNavigation(c *fiber.Ctx) error {
	var profile *models.UserProfile

	stored, err := h.gateway.GetProfile(c.UserContext(), middleware.OwnerID(c))
	switch {
	case err == nil:
		profile = stored
	case !errors.Is(err, repositories.ErrRecordNotFound):
		return respondError(c, err)
	}

	view := services.ResolveView(profile)
	return c.JSON(fiber.Map{
		"kind":     view.Kind(),
		"view":     view,
		"settings": services.SettingsItem,
	})
}
