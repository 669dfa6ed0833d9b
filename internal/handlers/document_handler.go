package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/services"
)

type DocumentHandler struct {
	gateway services.PersistenceGateway
}

func NewDocumentHandler(gateway services.PersistenceGateway) *DocumentHandler {
	return &DocumentHandler{gateway: gateway}
}

// HandleList handles GET /documents/:kind
func (h *DocumentHandler) HandleList(c *fiber.Ctx) error {
	kind, ok := models.ParseDocumentKind(c.Params("kind"))
	if !ok {
		return badRequest(c, "Unknown document kind")
	}

	docs, err := h.gateway.ListDocuments(c.UserContext(), middleware.OwnerID(c), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(docs)
}

// HandleCreate handles POST /documents/:kind. The id is returned before the
// insert completes.
func (h *DocumentHandler) HandleCreate(c *fiber.Ctx) error {
	kind, ok := models.ParseDocumentKind(c.Params("kind"))
	if !ok {
		return badRequest(c, "Unknown document kind")
	}

	var req models.SaveDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	doc, _, err := h.gateway.SaveDocument(c.UserContext(), middleware.OwnerID(c), kind, req.Title, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":       doc.ID.String(),
		"status":   models.StatusPending,
		"document": doc,
	})
}

// HandleGet handles GET /documents/:kind/:id
func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	kind, ok := models.ParseDocumentKind(c.Params("kind"))
	if !ok {
		return badRequest(c, "Unknown document kind")
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid document ID format")
	}

	doc, err := h.gateway.GetDocument(c.UserContext(), middleware.OwnerID(c), kind, docID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// HandleDelete handles DELETE /documents/:kind/:id
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	kind, ok := models.ParseDocumentKind(c.Params("kind"))
	if !ok {
		return badRequest(c, "Unknown document kind")
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid document ID format")
	}

	h.gateway.DeleteDocument(c.UserContext(), middleware.OwnerID(c), kind, docID)

	return c.Status(fiber.StatusAccepted).JSON(models.AcceptedResponse{
		ID:     docID.String(),
		Status: models.StatusPending,
	})
}
