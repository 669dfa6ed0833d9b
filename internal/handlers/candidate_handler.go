package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/services"
)

type CandidateHandler struct {
	search *services.CandidateSearch
}

func NewCandidateHandler(search *services.CandidateSearch) *CandidateHandler {
	return &CandidateHandler{search: search}
}

// HandleSearch handles POST /candidates/search
func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	var query services.CandidateQuery
	if err := c.BodyParser(&query); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	matches, err := h.search.Search(c.UserContext(), middleware.OwnerID(c), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"candidates": matches})
}
