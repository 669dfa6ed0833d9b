package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
)

type Routes struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Documents     *DocumentHandler
	AI            *AIHandler
	Navigation    *NavigationHandler
	Notifications *NotificationHandler
	Candidates    *CandidateHandler
}

// Register mounts every endpoint under /api/v1. A nil handler leaves its
// routes out.
func (r Routes) Register(app *fiber.App, verifier middleware.TokenVerifier) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	if r.Auth != nil {
		auth := api.Group("/auth")
		auth.Post("/register", r.Auth.HandleRegister)
		auth.Post("/login", r.Auth.HandleLogin)
		auth.Post("/guest", r.Auth.HandleGuest)
	}

	protected := api.Group("", middleware.RequireOwner(verifier))

	if r.Profile != nil {
		protected.Get("/profile", r.Profile.HandleGetProfile)

		wizard := protected.Group("/profile/wizard")
		wizard.Post("/", r.Profile.HandleBegin)
		wizard.Get("/", r.Profile.HandleGetWizard)
		wizard.Patch("/", r.Profile.HandleUpdate)
		wizard.Delete("/", r.Profile.HandleDiscard)
		wizard.Post("/next", r.Profile.HandleNext)
		wizard.Post("/prev", r.Profile.HandlePrev)
		wizard.Post("/entries/:list", r.Profile.HandleAddEntry)
		wizard.Delete("/entries/:list/:index", r.Profile.HandleRemoveEntry)
		wizard.Post("/submit", r.Profile.HandleSubmit)
	}

	if r.Documents != nil {
		protected.Get("/documents/:kind", r.Documents.HandleList)
		protected.Post("/documents/:kind", r.Documents.HandleCreate)
		protected.Get("/documents/:kind/:id", r.Documents.HandleGet)
		protected.Delete("/documents/:kind/:id", r.Documents.HandleDelete)
	}

	if r.AI != nil {
		protected.Post("/ai/cv-content", r.AI.HandleCVContent)
		protected.Post("/ai/ats-score", r.AI.HandleATSScore)
		protected.Post("/ai/cover-letter", r.AI.HandleCoverLetter)
	}

	if r.Navigation != nil {
		protected.Get("/navigation", r.Navigation.HandleNavigation)
	}

	if r.Notifications != nil {
		protected.Get("/notifications", r.Notifications.HandleList)
		protected.Delete("/notifications/:id", r.Notifications.HandleDismiss)
	}

	if r.Candidates != nil {
		protected.Post("/candidates/search", r.Candidates.HandleSearch)
	}
}
