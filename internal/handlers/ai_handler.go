package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/middleware"
	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/services"
)

type AIHandler struct {
	suggestions services.SuggestionService
	gateway     services.PersistenceGateway
	uploads     services.UploadStore
	extractor   services.CVTextExtractor
}

func NewAIHandler(
	suggestions services.SuggestionService,
	gateway services.PersistenceGateway,
	uploads services.UploadStore,
	extractor services.CVTextExtractor,
) *AIHandler {
	return &AIHandler{
		suggestions: suggestions,
		gateway:     gateway,
		uploads:     uploads,
		extractor:   extractor,
	}
}

// HandleCVContent handles POST /ai/cv-content
func (h *AIHandler) HandleCVContent(c *fiber.Ctx) error {
	var req services.CVContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if len(req.Skills) == 0 && req.Experience == "" && req.Education == "" && len(req.Languages) == 0 {
		if profile := h.storedProfile(c); profile != nil {
			fillFromProfile(&req, profile)
		}
	}

	resp, err := h.suggestions.GenerateCVContent(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleATSScore handles POST /ai/ats-score. The CV comes either as
// {"cvText": ...} or as a PDF in the multipart field "cv".
func (h *AIHandler) HandleATSScore(c *fiber.Ctx) error {
	var req services.ATSRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		file, err := c.FormFile("cv")
		if err != nil {
			return badRequest(c, "Please upload your CV as the 'cv' field")
		}

		path, err := h.uploads.Save(file)
		if err != nil {
			return respondError(c, err)
		}
		defer h.uploads.Remove(path)

		text, err := h.extractor.ExtractText(path)
		if err != nil {
			return respondError(c, err)
		}
		req.CVText = text
	} else if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.suggestions.ScoreATSCompatibility(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleCoverLetter handles POST /ai/cover-letter
func (h *AIHandler) HandleCoverLetter(c *fiber.Ctx) error {
	var req services.CoverLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if req.UserProfile.FullName == "" {
		if profile := h.storedProfile(c); profile != nil {
			req.UserProfile = services.CoverLetterProfile{
				FullName: profile.FullName,
				Summary:  profile.Summary,
				Skills:   profile.Skills,
			}
		}
	}

	resp, err := h.suggestions.GenerateCoverLetter(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AIHandler) storedProfile(c *fiber.Ctx) *models.UserProfile {
	profile, err := h.gateway.GetProfile(c.UserContext(), middleware.OwnerID(c))
	if err != nil {
		return nil
	}
	return profile
}

func fillFromProfile(req *services.CVContentRequest, profile *models.UserProfile) {
	req.Skills = splitList(profile.Skills)
	req.Languages = splitList(profile.Languages)

	var experience []string
	for _, e := range profile.Experiences {
		experience = append(experience, fmt.Sprintf("%s at %s", e.JobTitle, e.Company))
	}
	req.Experience = strings.Join(experience, "; ")

	var education []string
	for _, e := range profile.Educations {
		education = append(education, fmt.Sprintf("%s, %s", e.Degree, e.Institution))
	}
	req.Education = strings.Join(education, "; ")
}

// splitList splits free text on commas, semicolons and newlines.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
