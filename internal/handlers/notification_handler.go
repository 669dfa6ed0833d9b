package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/services"
)

type NotificationHandler struct {
	center *services.NotificationCenter
}

func NewNotificationHandler(center *services.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// HandleList handles GET /notifications
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.center.List(middleware.OwnerID(c)))
}

// HandleDismiss handles DELETE /notifications/:id
func (h *NotificationHandler) HandleDismiss(c *fiber.Ctx) error {
	if !h.center.Dismiss(middleware.OwnerID(c), c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
