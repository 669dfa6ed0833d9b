package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/services"
)

type ProfileHandler struct {
	gateway services.PersistenceGateway
	wizards *services.WizardStore
}

func NewProfileHandler(gateway services.PersistenceGateway, wizards *services.WizardStore) *ProfileHandler {
	return &ProfileHandler{
		gateway: gateway,
		wizards: wizards,
	}
}

// HandleGetProfile handles GET /profile
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.gateway.GetProfile(c.UserContext(), middleware.OwnerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// HandleBegin handles POST /profile/wizard
func (h *ProfileHandler) HandleBegin(c *fiber.Ctx) error {
	defaults := models.ProfileForm{}
	if identity := middleware.Identity(c); identity != nil {
		defaults.Email = identity.Email
	}

	wizard, err := h.wizards.Begin(c.UserContext(), middleware.OwnerID(c), defaults)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(wizard.State())
}

// HandleGetWizard handles GET /profile/wizard
func (h *ProfileHandler) HandleGetWizard(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}
	return c.JSON(wizard.State())
}

// HandleUpdate handles PATCH /profile/wizard
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	var patch services.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	wizard.Update(patch)
	return c.JSON(wizard.State())
}

// HandleNext handles POST /profile/wizard/next. An invalid section answers
// 422 with the field errors in the state.
func (h *ProfileHandler) HandleNext(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	if !wizard.Next() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(wizard.State())
	}
	return c.JSON(wizard.State())
}

// HandlePrev handles POST /profile/wizard/prev
func (h *ProfileHandler) HandlePrev(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	wizard.Prev()
	return c.JSON(wizard.State())
}

// HandleAddEntry handles POST /profile/wizard/entries/:list
func (h *ProfileHandler) HandleAddEntry(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	index, err := wizard.AddEntry(services.ListField(c.Params("list")))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"index": index,
		"state": wizard.State(),
	})
}

// HandleRemoveEntry handles DELETE /profile/wizard/entries/:list/:index
func (h *ProfileHandler) HandleRemoveEntry(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "Invalid entry index")
	}

	if err := wizard.RemoveEntry(services.ListField(c.Params("list")), index); err != nil {
		return respondError(c, err)
	}
	return c.JSON(wizard.State())
}

// HandleSubmit handles POST /profile/wizard/submit. The save runs in the
// background; failures surface through /notifications.
func (h *ProfileHandler) HandleSubmit(c *fiber.Ctx) error {
	wizard, ok := h.wizards.Get(middleware.OwnerID(c))
	if !ok {
		return noWizard(c)
	}

	_, err := wizard.Submit(c.UserContext(), middleware.OwnerID(c))
	if errors.Is(err, services.ErrSubmitBlocked) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(wizard.State())
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AcceptedResponse{
		ID:     middleware.OwnerID(c),
		Status: models.StatusPending,
	})
}

// HandleDiscard handles DELETE /profile/wizard
func (h *ProfileHandler) HandleDiscard(c *fiber.Ctx) error {
	h.wizards.Discard(middleware.OwnerID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func noWizard(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "No profile wizard in progress",
	})
}
