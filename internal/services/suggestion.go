package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"loneus/cv-builder/internal/validation"
)

type CVContentRequest struct {
	JobTitle   string   `json:"jobTitle"`
	Skills     []string `json:"userSkills,omitempty"`
	Experience string   `json:"userExperience,omitempty"`
	Education  string   `json:"userEducation,omitempty"`
	Languages  []string `json:"userLanguages,omitempty"`
}

type CVContentResponse struct {
	SuggestedContent string `json:"suggestedContent"`
}

type ATSRequest struct {
	CVText string `json:"cvText"`
}

// ATSResponse carries the model's score as given; it is not clamped to 0-100.
type ATSResponse struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type CoverLetterProfile struct {
	FullName string `json:"fullName"`
	Summary  string `json:"summary,omitempty"`
	Skills   string `json:"skills,omitempty"`
}

type CoverLetterRequest struct {
	JobTitle      string             `json:"jobTitle"`
	CompanyName   string             `json:"companyName"`
	RecipientName string             `json:"recipientName,omitempty"`
	UserProfile   CoverLetterProfile `json:"userProfile"`
}

type CoverLetterResponse struct {
	CoverLetterContent string `json:"coverLetterContent"`
}

// SuggestionService is the gateway to the text-generation model. Each call
// is a single attempt; failures go straight back to the caller.
type SuggestionService interface {
	GenerateCVContent(ctx context.Context, req CVContentRequest) (*CVContentResponse, error)
	ScoreATSCompatibility(ctx context.Context, req ATSRequest) (*ATSResponse, error)
	GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*CoverLetterResponse, error)
}

type suggestionService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewSuggestionService(geminiService GeminiService) SuggestionService {
	return &suggestionService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// GenerateCVContent implements SuggestionService.
func (s *suggestionService) GenerateCVContent(ctx context.Context, req CVContentRequest) (*CVContentResponse, error) {
	if strings.TrimSpace(req.JobTitle) == "" {
		return nil, invalidRequest("job title is required to generate suggestions")
	}

	var out CVContentResponse
	prompt := s.promptBuilder.BuildCVContentPrompt(req)
	if err := s.generate(ctx, "generateCvContent", validation.AIResponseCVContent, prompt, 0.7, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreATSCompatibility implements SuggestionService.
func (s *suggestionService) ScoreATSCompatibility(ctx context.Context, req ATSRequest) (*ATSResponse, error) {
	if strings.TrimSpace(req.CVText) == "" {
		return nil, invalidRequest("CV text cannot be empty")
	}

	var out ATSResponse
	prompt := s.promptBuilder.BuildATSPrompt(req)
	if err := s.generate(ctx, "atsCompatibilityScore", validation.AIResponseATSScore, prompt, 0.3, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateCoverLetter implements SuggestionService.
func (s *suggestionService) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*CoverLetterResponse, error) {
	if strings.TrimSpace(req.JobTitle) == "" {
		return nil, invalidRequest("job title is required")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, invalidRequest("company name is required")
	}

	var out CoverLetterResponse
	prompt := s.promptBuilder.BuildCoverLetterPrompt(req)
	if err := s.generate(ctx, "generateCoverLetter", validation.AIResponseCoverLetter, prompt, 0.7, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *suggestionService) generate(ctx context.Context, flow string, kind validation.AIResponseKind, prompt string, temperature float32, target interface{}) error {
	response, err := s.geminiService.GenerateJSON(ctx, prompt, temperature)
	if err != nil {
		log.Printf("❌ %s failed: %v\n", flow, err)
		return &GenerationError{Flow: flow, Err: err}
	}

	jsonStr := extractJSON(response)
	if errs := validation.ValidateAIResponse(kind, jsonStr); errs != nil {
		log.Printf("❌ %s returned an unexpected shape: %v\n", flow, errs)
		return &GenerationError{Flow: flow, Err: errs}
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return &GenerationError{Flow: flow, Err: fmt.Errorf("failed to unmarshal JSON: %w", err)}
	}

	return nil
}
